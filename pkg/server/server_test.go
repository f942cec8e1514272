package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/suggest"
	"github.com/matst80/slask-filters/pkg/tracking"
	"github.com/matst80/slask-filters/pkg/types"
)

type recordingTracking struct {
	mu       sync.Mutex
	sessions []string
	changes  []tracking.FilterChange
}

func (r *recordingTracking) TrackSession(sessionId string, _ *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionId)
}

func (r *recordingTracking) TrackFilterChange(change tracking.FilterChange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
}

func testManifest() *filter.Manifest {
	return &filter.Manifest{
		Name:  "test",
		Order: []string{"q", "", "country", "status"},
		Filters: map[string]filter.Spec{
			"q":       {Type: filter.TextType},
			"country": {Type: filter.SetType, AllowSearchText: true},
			"status": {
				Type: filter.PartitionType,
				Items: []types.PartitionItem{
					{Key: "a", Label: "Active", Selected: true},
					{Key: "b", Label: "Blocked", Selected: true},
					{Key: "c", Label: "Closed"},
				},
			},
		},
	}
}

type testClient struct {
	t       *testing.T
	mux     *http.ServeMux
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) (*Server, *recordingTracking, *testClient) {
	t.Helper()
	trk := &recordingTracking{}
	source := suggest.NewStaticSource(map[string][]types.Candidate{
		"country": {
			{Value: "se", Label: "Sweden"},
			{Value: "ch", Label: "Switzerland"},
			{Value: "sz", Label: "Eswatini"},
		},
	})
	srv, err := NewServer("test", testManifest(), source, trk)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	mux := http.NewServeMux()
	srv.Handle(mux)
	return srv, trk, &testClient{t: t, mux: mux}
}

func (c *testClient) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.mux.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rec
}

func (c *testClient) state(method, target, body string) StateResponse {
	c.t.Helper()
	rec := c.do(method, target, body)
	if rec.Code != http.StatusOK {
		c.t.Fatalf("Expected 200 from %s %s, got %d: %s", method, target, rec.Code, rec.Body.String())
	}
	state := StateResponse{}
	if err := jsoncompat.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		c.t.Fatalf("Failed to decode state %v", err)
	}
	return state
}

func TestGetFilters(t *testing.T) {
	_, _, c := newTestServer(t)
	rec := c.do(http.MethodGet, "/api/filters", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	res := FiltersResponse{}
	if err := jsoncompat.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("Failed to decode %v", err)
	}
	if len(res.Filters) != 3 || res.Filters[1].Key != "country" {
		t.Errorf("Unexpected filters %+v", res.Filters)
	}
}

func TestGetStateCanonicalQuery(t *testing.T) {
	_, _, c := newTestServer(t)
	state := c.state(http.MethodGet, "/api/state?country=Palestine,%20State%20of,se&status=all&page=2", "")
	expected := "country=Palestine%2C+State+of%2Cse&status=all"
	if state.Query != expected {
		t.Errorf("Expected %s, got %s", expected, state.Query)
	}

	state = c.state(http.MethodGet, "/api/state", "")
	if state.Query != "" {
		t.Errorf("Expected defaults to encode to an empty query, got %s", state.Query)
	}
}

func TestSessionKeepsState(t *testing.T) {
	_, _, c := newTestServer(t)
	c.state(http.MethodPut, "/api/state/q", `"acme"`)
	state := c.state(http.MethodPost, "/api/state/country/items", `{"value":"se","label":"Sweden"}`)
	if state.Query != "country=se&q=acme" {
		t.Errorf("Expected country=se&q=acme, got %s", state.Query)
	}
	state = c.state(http.MethodDelete, "/api/state/country/items?value=se", "")
	if state.Query != "q=acme" {
		t.Errorf("Expected q=acme, got %s", state.Query)
	}

	other := &testClient{t: t, mux: c.mux}
	if state = other.state(http.MethodPut, "/api/state/status", `["c"]`); state.Query != "status=c" {
		t.Errorf("Expected a new session to start from defaults, got %s", state.Query)
	}
	if len(other.cookies) == 0 || other.cookies[0].Value == c.cookies[0].Value {
		t.Errorf("Expected a separate session cookie")
	}
}

func TestToggleMarksInvalid(t *testing.T) {
	_, _, c := newTestServer(t)
	state := c.state(http.MethodPost, "/api/state/status/toggle", `{"key":"a","checked":false}`)
	if state.Query != "status=b" || len(state.Invalid) != 0 {
		t.Errorf("Expected status=b, got %s %v", state.Query, state.Invalid)
	}
	state = c.state(http.MethodPost, "/api/state/status/toggle", `{"key":"b","checked":false}`)
	if state.Query != "status=b" {
		t.Errorf("Expected the committed value to stay, got %s", state.Query)
	}
	if len(state.Invalid) != 1 || state.Invalid[0] != "status" {
		t.Errorf("Expected status to be invalid, got %v", state.Invalid)
	}
}

func TestSuggest(t *testing.T) {
	_, _, c := newTestServer(t)
	rec := c.do(http.MethodGet, "/api/suggest/country?q=swe", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	res := []types.Candidate{}
	if err := jsoncompat.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("Failed to decode %v", err)
	}
	if len(res) != 2 || res[0].Value != `"swe"` || res[1].Value != "se" {
		t.Errorf("Expected quoted term and Sweden, got %v", res)
	}

	c.state(http.MethodPost, "/api/state/country/items", `{"value":"se"}`)
	rec = c.do(http.MethodGet, "/api/suggest/country?q=sw&limit=5", "")
	res = []types.Candidate{}
	if err := jsoncompat.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("Failed to decode %v", err)
	}
	for _, candidate := range res {
		if candidate.Value == "se" {
			t.Errorf("Expected selected value to be excluded, got %v", res)
		}
	}
}

func TestErrorStatus(t *testing.T) {
	_, _, c := newTestServer(t)
	cases := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodPut, "/api/state/nope", `"x"`, http.StatusNotFound},
		{http.MethodPut, "/api/state/status", `["x"]`, http.StatusBadRequest},
		{http.MethodPut, "/api/state/status", `"a"`, http.StatusBadRequest},
		{http.MethodPost, "/api/state/status/items", `{"value":"a"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/state/country/items", `{}`, http.StatusBadRequest},
		{http.MethodDelete, "/api/state/country/items", ``, http.StatusBadRequest},
		{http.MethodGet, "/api/suggest/status?q=a", ``, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := c.do(tc.method, tc.target, tc.body)
		if rec.Code != tc.status {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.target, tc.status, rec.Code)
		}
	}
}

func TestEmptyPartitionKeepsSessionUsable(t *testing.T) {
	_, _, c := newTestServer(t)
	c.state(http.MethodPut, "/api/state/status", `["c"]`)
	state := c.state(http.MethodPut, "/api/state/status", `[]`)
	if state.Query != "status=c" {
		t.Errorf("Expected the committed value to stay, got %s", state.Query)
	}
	if len(state.Invalid) != 1 || state.Invalid[0] != "status" {
		t.Errorf("Expected status to be invalid, got %v", state.Invalid)
	}
	state = c.state(http.MethodPost, "/api/state/country/items", `{"value":"se"}`)
	if state.Query != "country=se&status=c" {
		t.Errorf("Expected country=se&status=c, got %s", state.Query)
	}
}

func TestChangesCarryFinalQuery(t *testing.T) {
	srv, trk, c := newTestServer(t)
	c.state(http.MethodGet, "/api/state?q=acme&status=all", "")
	srv.Close()

	trk.mu.Lock()
	defer trk.mu.Unlock()
	if len(trk.changes) != 2 {
		t.Fatalf("Expected 2 tracked changes, got %d", len(trk.changes))
	}
	for _, change := range trk.changes {
		if change.Query != "q=acme&status=all" {
			t.Errorf("Expected every change to carry the applied query, got %+v", change)
		}
	}
}

func TestChangesAreTracked(t *testing.T) {
	srv, trk, c := newTestServer(t)
	c.state(http.MethodPut, "/api/state/q", `"acme"`)
	c.state(http.MethodPut, "/api/state/q", `"acme"`)
	c.state(http.MethodPost, "/api/state/status/toggle", `{"key":"c","checked":true}`)
	srv.Close()

	trk.mu.Lock()
	defer trk.mu.Unlock()
	if len(trk.changes) != 2 {
		t.Fatalf("Expected 2 tracked changes, got %d", len(trk.changes))
	}
	if trk.changes[0].Key != "q" || trk.changes[0].Query != "q=acme" {
		t.Errorf("Unexpected change %+v", trk.changes[0])
	}
	if trk.changes[1].Key != "status" || trk.changes[1].Query != "q=acme&status=all" {
		t.Errorf("Unexpected change %+v", trk.changes[1])
	}
	if trk.changes[0].SessionId != trk.changes[1].SessionId || trk.changes[0].Dashboard != "test" {
		t.Errorf("Expected changes from one session of the test dashboard")
	}
}

func TestNewServerRejectsBrokenManifest(t *testing.T) {
	m := testManifest()
	m.Order = append(m.Order, "missing")
	if _, err := NewServer("test", m, suggest.NewStaticSource(nil), nil); err == nil {
		t.Errorf("Expected config error")
	}
}

func TestSessionsPrune(t *testing.T) {
	srv, _, c := newTestServer(t)
	c.state(http.MethodGet, "/api/state", "")
	if srv.Sessions.Len() != 1 {
		t.Fatalf("Expected one session, got %d", srv.Sessions.Len())
	}
	if removed := srv.Sessions.Prune(0); removed != 1 || srv.Sessions.Len() != 0 {
		t.Errorf("Expected session to be pruned, removed %d", removed)
	}
}
