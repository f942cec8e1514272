package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/suggest"
	"github.com/matst80/slask-filters/pkg/tracking"
	"github.com/matst80/slask-filters/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskfilters_filter_changes_total",
		Help: "The total number of committed filter changes",
	}, []string{"filter"})
	encodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfilters_encode_failures_total",
		Help: "The total number of filter states that could not be encoded",
	})
)

type Server struct {
	Dashboard string
	Manifest  *filter.Manifest
	Registry  *filter.Registry
	Source    suggest.Source
	Tracking  tracking.Tracking
	Sessions  *Sessions
	changes   *common.QueueHandler[tracking.FilterChange]
}

// NewServer validates the manifest by building one set of controls before
// any session exists.
func NewServer(dashboard string, manifest *filter.Manifest, source suggest.Source, trk tracking.Tracking) (*Server, error) {
	if _, err := filter.NewControls(nil, manifest, nil); err != nil {
		return nil, err
	}
	if trk == nil {
		trk = tracking.LogTracking{}
	}
	s := &Server{
		Dashboard: dashboard,
		Manifest:  manifest,
		Registry:  filter.DefaultRegistry,
		Source:    source,
		Tracking:  trk,
	}
	s.changes = common.NewQueueHandler(func(items []tracking.FilterChange) {
		for _, change := range items {
			s.Tracking.TrackFilterChange(change)
		}
	}, 50, 500*time.Millisecond)
	s.Sessions = NewSessions(s.newSession)
	return s, nil
}

func (s *Server) newSession(sessionId string) (*Session, error) {
	session := &Session{
		Id:        sessionId,
		Suggester: suggest.NewSuggester(s.Source),
		publish: func(changes []tracking.FilterChange) {
			s.changes.Add(changes...)
		},
	}
	controls, err := filter.NewControls(s.Registry, s.Manifest, func(key string, value filter.Value, reason string) {
		// defaults applied while the session is created are not reported
		if session.Controls == nil {
			return
		}
		filterChanges.WithLabelValues(key).Inc()
		// the query is filled in once the whole operation has been applied
		session.pending = append(session.pending, tracking.NewFilterChange(sessionId, s.Dashboard, key, value, reason, ""))
	})
	if err != nil {
		return nil, err
	}
	if err = controls.ApplyParams(types.Params{}); err != nil {
		return nil, err
	}
	session.Controls = controls
	return session, nil
}

func (s *Server) session(r *http.Request, sessionId string) (*Session, error) {
	session, created, err := s.Sessions.Get(sessionId)
	if err != nil {
		return nil, err
	}
	if created {
		go s.Tracking.TrackSession(sessionId, r.Clone(context.Background()))
	}
	return session, nil
}

// Close flushes pending change events.
func (s *Server) Close() {
	s.changes.Close()
}

func (s *Server) Handle(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/filters", common.JsonHandler(s.GetFilters))
	mux.HandleFunc("GET /api/state", common.JsonHandler(s.GetState))
	mux.HandleFunc("PUT /api/state/{key}", common.JsonHandler(s.SetValue))
	mux.HandleFunc("POST /api/state/{key}/items", common.JsonHandler(s.AddItem))
	mux.HandleFunc("DELETE /api/state/{key}/items", common.JsonHandler(s.RemoveItem))
	mux.HandleFunc("POST /api/state/{key}/toggle", common.JsonHandler(s.Toggle))
	mux.HandleFunc("GET /api/suggest/{key}", common.JsonHandler(s.Suggest))
	mux.HandleFunc("OPTIONS /api/", common.RespondToOptions)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
}

func toHttpError(err error) error {
	var valueErr *filter.ValueError
	var encodingErr *filter.EncodingError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &valueErr):
		return common.NewHttpError(http.StatusBadRequest, err)
	case errors.Is(err, filter.ErrUnknownFilter):
		return common.NewHttpError(http.StatusNotFound, err)
	case errors.As(err, &encodingErr):
		encodeFailures.Inc()
		log.Printf("Filter state could not be encoded: %v", err)
		return common.NewHttpError(http.StatusUnprocessableEntity, err)
	case errors.Is(err, suggest.ErrStale):
		return common.NewHttpError(http.StatusConflict, err)
	}
	return err
}
