package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/giygas/yakguide/config"
	"github.com/giygas/yakguide/gateway"
	"github.com/giygas/yakguide/handlers"
	"github.com/giygas/yakguide/health"
	"github.com/giygas/yakguide/lookup"
	"github.com/giygas/yakguide/registry"
	"github.com/giygas/yakguide/scheduler"
	"github.com/giygas/yakguide/server"
	"github.com/giygas/yakguide/validation"
)

const drugsPayload = `{"header":{"resultCode":"00","resultMsg":"NORMAL SERVICE."},
"body":{"totalCount":2,"items":[
{"itemName":"타이레놀정500밀리그람","entpName":"한국얀센","efcyQesitm":"두통, 발열","useMethodQesitm":"1회 1정","atpnWarnQesitm":null,"depositMethodQesitm":""},
{"itemName":"게보린정","entpName":"삼진제약","efcyQesitm":"두통"}]}}`

// fakeProviders serves both upstream APIs and records the last query of each
type fakeProviders struct {
	drugQuery   url.Values
	placesQuery url.Values
}

func (f *fakeProviders) drugs(w http.ResponseWriter, r *http.Request) {
	f.drugQuery = r.URL.Query()
	w.Header().Set("Content-Type", "application/json")
	if f.drugQuery.Get("itemName") == "없는약" {
		w.Write([]byte(`{"header":{"resultCode":"03","resultMsg":"NODATA_ERROR"}}`))
		return
	}
	w.Write([]byte(drugsPayload))
}

func (f *fakeProviders) places(w http.ResponseWriter, r *http.Request) {
	f.placesQuery = r.URL.Query()
	if strings.HasPrefix(f.placesQuery.Get("query"), "broken") {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"OK","results":[
{"name":"온누리약국","formatted_address":"서울 중구 세종대로 1","rating":4.2},
{"name":"","formatted_address":"서울 중구 을지로 2"}]}`))
}

func setupStack(t *testing.T) (*server.Server, *fakeProviders, *health.ProbeTracker, *scheduler.Scheduler) {
	t.Helper()

	fake := &fakeProviders{}
	drugServer := httptest.NewServer(http.HandlerFunc(fake.drugs))
	placesServer := httptest.NewServer(http.HandlerFunc(fake.places))
	t.Cleanup(drugServer.Close)
	t.Cleanup(placesServer.Close)

	cfg := &config.Config{
		Port:             "0",
		Address:          "127.0.0.1",
		Env:              config.EnvTest,
		MaxRequestBody:   1048576,
		MaxHeaderSize:    1048576,
		DrugAPIBaseURL:   drugServer.URL,
		DrugAPIKey:       "drug-secret",
		PlacesAPIBaseURL: placesServer.URL,
		PlacesAPIKey:     "places-secret",
		UpstreamTimeout:  2 * time.Second,
		MaxUpstreamBody:  1 << 20,
		ProbeInterval:    time.Minute,
		AllowedOrigins:   []string{"*"},
	}

	validator := validation.NewInputValidator()
	service := lookup.NewService(
		gateway.NewClient(lookup.ProviderMedication, cfg.UpstreamTimeout, cfg.MaxUpstreamBody),
		gateway.NewClient(lookup.ProviderPlaces, cfg.UpstreamTimeout, cfg.MaxUpstreamBody),
		validator,
		lookup.Endpoints{
			DrugURL:   cfg.DrugAPIBaseURL,
			DrugKey:   cfg.DrugAPIKey,
			PlacesURL: cfg.PlacesAPIBaseURL,
			PlacesKey: cfg.PlacesAPIKey,
		},
	)

	addresses := registry.NewAddressRegistry(validator)
	tracker := health.NewProbeTracker()
	checker := health.NewHealthChecker(tracker, addresses, cfg.ProbeInterval)
	probes := scheduler.NewScheduler(service.Probes(), tracker, cfg.ProbeInterval, cfg.UpstreamTimeout)

	srv := server.NewServer(cfg, handlers.NewHTTPHandler(service, addresses, checker))
	return srv, fake, tracker, probes
}

func get(t *testing.T, srv *server.Server, target string) (int, map[string]any) {
	t.Helper()
	return call(t, srv, httptest.NewRequest(http.MethodGet, target, nil))
}

func call(t *testing.T, srv *server.Server, req *http.Request) (int, map[string]any) {
	t.Helper()

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q: %v", req.Method, req.URL, rr.Body.String(), err)
	}
	return rr.Code, body
}

func TestIntegrationExactLookup(t *testing.T) {
	srv, fake, _, _ := setupStack(t)

	code, body := get(t, srv, "/v1/medications/"+url.PathEscape("타이레놀정500밀리그람"))
	if code != http.StatusOK || body["status"] != "found" || body["count"] != 1.0 {
		t.Fatalf("unexpected response %d %v", code, body)
	}

	record := body["results"].([]any)[0].(map[string]any)
	if record["name"] != "타이레놀정500밀리그람" || record["warnings"] != "정보 없음" || record["storage_instructions"] != "정보 없음" {
		t.Errorf("unexpected record %v", record)
	}

	if fake.drugQuery.Get("itemName") != "타이레놀정500밀리그람" || fake.drugQuery.Get("numOfRows") != "1" {
		t.Errorf("unexpected upstream query %v", fake.drugQuery)
	}
	if fake.drugQuery.Get("serviceKey") != "drug-secret" || fake.drugQuery.Get("type") != "json" {
		t.Errorf("credential or format missing from upstream query %v", fake.drugQuery)
	}
}

func TestIntegrationExactLookupNoData(t *testing.T) {
	srv, _, _, _ := setupStack(t)

	code, body := get(t, srv, "/v1/medications/"+url.PathEscape("없는약"))
	if code != http.StatusOK || body["status"] != "no_matches" {
		t.Errorf("expected no_matches, got %d %v", code, body)
	}
}

func TestIntegrationSymptomLookup(t *testing.T) {
	srv, fake, _, _ := setupStack(t)

	code, body := get(t, srv, "/v1/medications?symptom="+url.QueryEscape("두통"))
	if code != http.StatusOK || body["count"] != 2.0 {
		t.Fatalf("unexpected response %d %v", code, body)
	}
	if fake.drugQuery.Get("efcyQesitm") != "두통" || fake.drugQuery.Get("numOfRows") != "5" {
		t.Errorf("unexpected upstream query %v", fake.drugQuery)
	}

	second := body["results"].([]any)[1].(map[string]any)
	if second["name"] != "게보린정" || second["manufacturer"] != "삼진제약" {
		t.Errorf("unexpected summary %v", second)
	}
}

func TestIntegrationPharmacyLookup(t *testing.T) {
	srv, fake, _, _ := setupStack(t)

	code, body := get(t, srv, "/v1/pharmacies?address="+url.QueryEscape("서울 중구"))
	if code != http.StatusOK || body["count"] != 2.0 {
		t.Fatalf("unexpected response %d %v", code, body)
	}
	if fake.placesQuery.Get("query") != "서울 중구 약국" || fake.placesQuery.Get("key") != "places-secret" {
		t.Errorf("unexpected upstream query %v", fake.placesQuery)
	}

	results := body["results"].([]any)
	unnamed := results[1].(map[string]any)
	if unnamed["name"] != "이름 없음" || unnamed["rating_label"] != "평점 없음" || unnamed["rating"] != nil {
		t.Errorf("unexpected sentinel rendering %v", unnamed)
	}
}

func TestIntegrationPharmacyUpstreamFailure(t *testing.T) {
	srv, _, _, _ := setupStack(t)

	code, body := get(t, srv, "/v1/pharmacies?address=broken")
	if code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", code)
	}
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "pharmacy information could not be loaded") {
		t.Errorf("unexpected message %q", msg)
	}
	if strings.Contains(msg, "places-secret") {
		t.Error("API key leaked into the error message")
	}
}

func TestIntegrationBlankInputMakesNoUpstreamCall(t *testing.T) {
	srv, fake, _, _ := setupStack(t)

	code, _ := get(t, srv, "/v1/medications?symptom=%20%20")
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	code, _ = get(t, srv, "/v1/pharmacies?address=")
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if fake.drugQuery != nil || fake.placesQuery != nil {
		t.Error("blank input must not reach a provider")
	}
}

func TestIntegrationAddressesAndHealth(t *testing.T) {
	srv, _, tracker, probes := setupStack(t)

	for _, address := range []string{"서울 중구 세종대로 110", "서울 중구 세종대로 110"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/addresses", strings.NewReader(`{"address":"`+address+`"}`))
		req.Header.Set("Content-Type", "application/json")
		if code, body := call(t, srv, req); code != http.StatusCreated {
			t.Fatalf("append failed: %d %v", code, body)
		}
	}

	_, list := get(t, srv, "/v1/addresses")
	if list["count"] != 2.0 {
		t.Errorf("expected both entries, got %v", list)
	}

	code, body := get(t, srv, "/health")
	if code != http.StatusOK || body["status"] != health.StatusStarting {
		t.Errorf("expected starting before any probe, got %d %v", code, body)
	}

	if err := probes.Start(); err != nil {
		t.Fatalf("failed to start probes: %v", err)
	}
	defer probes.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for len(tracker.Snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	code, body = get(t, srv, "/health")
	if code != http.StatusOK || body["status"] != health.StatusHealthy {
		t.Errorf("expected healthy after probes, got %d %v", code, body)
	}
	if body["address_count"] != 2.0 {
		t.Errorf("expected address_count 2, got %v", body["address_count"])
	}
}
