package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
)

const maxBodySize = 1 << 20

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type SuggestRequest struct {
	Query string `json:"q" schema:"q"`
	Limit int    `json:"limit" schema:"limit,default:10"`
}

type RemoveItemRequest struct {
	Value string `json:"value" schema:"value,required"`
}

type ToggleRequest struct {
	Key     string `json:"key"`
	Checked bool   `json:"checked"`
}

func suggestRequestFromQuery(query url.Values) (*SuggestRequest, error) {
	req := &SuggestRequest{}
	if err := decoder.Decode(req, query); err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		req.Limit = 0
	}
	return req, nil
}

func removeItemRequestFromQuery(query url.Values) (*RemoveItemRequest, error) {
	req := &RemoveItemRequest{}
	if err := decoder.Decode(req, query); err != nil {
		return nil, err
	}
	if req.Value == "" {
		return nil, fmt.Errorf("missing item value")
	}
	return req, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
}

func decodeBody(w http.ResponseWriter, r *http.Request, data any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return jsoncompat.Unmarshal(body, data)
}
