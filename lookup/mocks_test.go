package lookup

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/giygas/yakguide/validation"
)

type fetchCall struct {
	endpoint string
	params   map[string]string
}

// mockFetcher records every call and replays a canned payload or error
type mockFetcher struct {
	payload map[string]any
	err     error
	calls   []fetchCall
}

func (m *mockFetcher) FetchJSON(ctx context.Context, endpoint string, params map[string]string) (map[string]any, error) {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	m.calls = append(m.calls, fetchCall{endpoint: endpoint, params: copied})
	if m.err != nil {
		return nil, m.err
	}
	return m.payload, nil
}

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return payload
}

var testEndpoints = Endpoints{
	DrugURL:   "http://drugs.test/list",
	DrugKey:   "drug-key",
	PlacesURL: "https://places.test/textsearch/json",
	PlacesKey: "maps-key",
}

func newTestService(drugs, places *mockFetcher) *Service {
	if drugs == nil {
		drugs = &mockFetcher{}
	}
	if places == nil {
		places = &mockFetcher{}
	}
	return NewService(drugs, places, validation.NewInputValidator(), testEndpoints)
}
