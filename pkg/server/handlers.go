package server

import (
	"fmt"
	"net/http"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/suggest"
	"github.com/matst80/slask-filters/pkg/types"
)

type FiltersResponse struct {
	Name    string        `json:"name"`
	Order   []string      `json:"order"`
	Filters []filter.Spec `json:"filters"`
}

type StateResponse struct {
	Values filter.Values `json:"values"`
	Params types.Params  `json:"params"`
	Query  string        `json:"query"`
	// Invalid lists partitions whose interactive selection is empty.
	Invalid []string `json:"invalid,omitempty"`
}

func stateOf(controls *filter.Controls) (*StateResponse, error) {
	params, err := controls.Params()
	if err != nil {
		return nil, err
	}
	ret := &StateResponse{
		Values: controls.Values(),
		Params: params,
		Query:  params.Encode(),
	}
	for _, f := range controls.Filters() {
		if p, ok := f.(*filter.PartitionFilter); ok && p.Invalid() {
			ret.Invalid = append(ret.Invalid, p.Key())
		}
	}
	return ret, nil
}

// withFilter runs fn on the filter named by the path while holding the
// session lock and returns the resulting state.
func (s *Server) withFilter(r *http.Request, sessionId string, fn func(f filter.Filter) error) (any, error) {
	session, err := s.session(r, sessionId)
	if err != nil {
		return nil, err
	}
	var state *StateResponse
	err = session.With(func(controls *filter.Controls) error {
		f, err := controls.Filter(r.PathValue("key"))
		if err != nil {
			return err
		}
		if err = fn(f); err != nil {
			return err
		}
		state, err = stateOf(controls)
		return err
	})
	if err != nil {
		return nil, toHttpError(err)
	}
	return state, nil
}

func setFilterOf(f filter.Filter) (*filter.SetFilter, error) {
	set, ok := f.(*filter.SetFilter)
	if !ok {
		return nil, common.NewHttpError(http.StatusBadRequest, fmt.Errorf("filter %q is not a set filter", f.Key()))
	}
	return set, nil
}

func (s *Server) GetFilters(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	return FiltersResponse{
		Name:    s.Manifest.Name,
		Order:   s.Manifest.Order,
		Filters: s.Manifest.OrderedSpecs(),
	}, nil
}

func (s *Server) GetState(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	session, err := s.session(r, sessionId)
	if err != nil {
		return nil, err
	}
	var state *StateResponse
	err = session.With(func(controls *filter.Controls) error {
		if err := controls.ApplyParams(types.ParamsFromQuery(r.URL.Query())); err != nil {
			return err
		}
		state, err = stateOf(controls)
		return err
	})
	if err != nil {
		return nil, toHttpError(err)
	}
	return state, nil
}

func (s *Server) SetValue(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, err)
	}
	return s.withFilter(r, sessionId, func(f filter.Filter) error {
		value, err := filter.DecodeValue(f, body)
		if err != nil {
			return err
		}
		return f.Set(value)
	})
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	item := types.SetItem{}
	if err := decodeBody(w, r, &item); err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, err)
	}
	if item.Value == "" {
		return nil, common.NewHttpError(http.StatusBadRequest, fmt.Errorf("missing item value"))
	}
	return s.withFilter(r, sessionId, func(f filter.Filter) error {
		set, err := setFilterOf(f)
		if err != nil {
			return err
		}
		set.AddItem(item)
		return nil
	})
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	req, err := removeItemRequestFromQuery(r.URL.Query())
	if err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, err)
	}
	return s.withFilter(r, sessionId, func(f filter.Filter) error {
		set, err := setFilterOf(f)
		if err != nil {
			return err
		}
		set.RemoveItem(types.SetItem{Value: req.Value})
		return nil
	})
}

func (s *Server) Toggle(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	req := ToggleRequest{}
	if err := decodeBody(w, r, &req); err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, err)
	}
	return s.withFilter(r, sessionId, func(f filter.Filter) error {
		partition, ok := f.(*filter.PartitionFilter)
		if !ok {
			return common.NewHttpError(http.StatusBadRequest, fmt.Errorf("filter %q is not a partition", f.Key()))
		}
		return partition.Toggle(req.Key, req.Checked)
	})
}

// Suggest ranks candidates for a set filter. The session lock is only held
// while reading the selection, the lookup itself runs unlocked.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request, sessionId string, isNew bool) (any, error) {
	req, err := suggestRequestFromQuery(r.URL.Query())
	if err != nil {
		return nil, common.NewHttpError(http.StatusBadRequest, err)
	}
	session, err := s.session(r, sessionId)
	if err != nil {
		return nil, err
	}
	key := r.PathValue("key")
	var opts suggest.Options
	err = session.With(func(controls *filter.Controls) error {
		f, err := controls.Filter(key)
		if err != nil {
			return err
		}
		set, err := setFilterOf(f)
		if err != nil {
			return err
		}
		opts = suggest.OptionsFor(set, req.Limit)
		return nil
	})
	if err != nil {
		return nil, toHttpError(err)
	}
	candidates, err := session.Suggester.Suggest(r.Context(), key, req.Query, opts)
	if err != nil {
		return nil, toHttpError(err)
	}
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	return candidates, nil
}
