package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/KaramelBytes/salesdash/internal/chart"
	"github.com/KaramelBytes/salesdash/internal/dashboard"
	"github.com/KaramelBytes/salesdash/internal/dataset"
	"github.com/KaramelBytes/salesdash/internal/obs"
	"github.com/KaramelBytes/salesdash/internal/render"
)

const fixtureCSV = `Preço,Qtd_Vendidos_Cod,N_Avaliações_MinMax,Marca,Temporada_Cod,Gênero
77.9,3,0.10,Keeper,1,Masculino
59.9,4,0.25,Olympikus,2,Feminino
120,2,0.50,Nike,1,Masculino
45,5,0.05,keeper,3,
`

func setupServer(t *testing.T, log zerolog.Logger) *Server {
	t.Helper()
	return setupServerCSV(t, fixtureCSV, log)
}

func setupServerCSV(t *testing.T, csv string, log zerolog.Logger) *Server {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(p, []byte(csv), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	st, err := dataset.Load(p, dataset.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return New(st, Options{Dashboard: dashboard.DefaultOptions(), ChartSize: render.Size{Width: 400, Height: 300}}, log)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthzOK(t *testing.T) {
	s := setupServer(t, obs.Nop())
	rr := get(t, s.Handler(), "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	s := setupServer(t, obs.Nop())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("request id: %q", got)
	}
}

func TestDomains(t *testing.T) {
	s := setupServer(t, obs.Nop())
	rr := get(t, s.Handler(), "/api/domains")
	var d dataset.Domains
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.Brands) != 4 || len(d.Seasons) != 3 || d.PriceMin != 45 || d.PriceMax != 120 {
		t.Fatalf("domains: %+v", d)
	}
}

type dashboardResp struct {
	Rows   int          `json:"rows"`
	Charts []chart.Spec `json:"charts"`
}

func TestDashboardAPI(t *testing.T) {
	s := setupServer(t, obs.Nop())
	rr := get(t, s.Handler(), "/api/dashboard?brand=Keeper&brand=keeper&price_min=45&price_max=77.9")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var d dashboardResp
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Rows != 2 || len(d.Charts) != dashboard.NumPanels {
		t.Fatalf("rows %d, charts %d", d.Rows, len(d.Charts))
	}
	if got := d.Charts[dashboard.PanelHistogram].Total(); got != 2 {
		t.Fatalf("histogram total %d", got)
	}
}

func TestDashboardRejectsBadQuery(t *testing.T) {
	s := setupServer(t, obs.Nop())
	for _, q := range []string{"price_min=abc", "price_min=100&price_max=10", "price_max=NaN"} {
		rr := get(t, s.Handler(), "/api/dashboard?"+q)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rr.Code)
		}
		var e apiError
		if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil || e.Error == "" {
			t.Fatalf("%s: bad error body %q", q, rr.Body.String())
		}
	}
}

func TestChartSVG(t *testing.T) {
	s := setupServer(t, obs.Nop())
	for _, slot := range []string{"1", "gender-pie", "4", "7"} {
		rr := get(t, s.Handler(), "/charts/"+slot+".svg?season=1")
		if rr.Code != http.StatusOK {
			t.Fatalf("slot %s: expected 200, got %d: %s", slot, rr.Code, rr.Body.String())
		}
		if ct := rr.Header().Get("Content-Type"); ct != "image/svg+xml" {
			t.Fatalf("content type %q", ct)
		}
		if !bytes.Contains(rr.Body.Bytes(), []byte("<svg")) {
			t.Fatalf("slot %s: not svg", slot)
		}
	}
	for _, target := range []string{"/charts/9.svg", "/nope"} {
		rr := get(t, s.Handler(), target)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rr.Code)
		}
		var e apiError
		if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil || e.Error == "" {
			t.Fatalf("%s: bad error body %q", target, rr.Body.String())
		}
	}
}

func TestIndexPage(t *testing.T) {
	s := setupServer(t, obs.Nop())
	rr := get(t, s.Handler(), "/?brand=Nike")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	// html/template escapes the + of the media type inside attributes.
	if n := strings.Count(body, `src="data:image/svg&#43;xml;base64,`); n != dashboard.NumPanels {
		t.Fatalf("expected %d inline panels, got %d", dashboard.NumPanels, n)
	}
	if !strings.Contains(body, `<option value="Nike" selected>`) {
		t.Fatalf("Nike should be selected")
	}
	if strings.Contains(body, `<option value="Olympikus" selected>`) {
		t.Fatalf("Olympikus should not be selected")
	}
	if !strings.Contains(body, "1 of 4 rows") {
		t.Fatalf("missing row summary")
	}
}

func TestIndexSwapsInvertedRange(t *testing.T) {
	s := setupServer(t, obs.Nop())
	rr := get(t, s.Handler(), "/?price_min=100&price_max=50")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type %q", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "2 of 4 rows") || !strings.Contains(body, `value="50"`) || !strings.Contains(body, `value="100"`) {
		t.Fatalf("inverted range should be swapped to [50,100]:\n%s", body)
	}
	if rr := get(t, s.Handler(), "/api/dashboard?price_min=100&price_max=50"); rr.Code != http.StatusBadRequest {
		t.Fatalf("api should still reject an inverted range, got %d", rr.Code)
	}
}

func TestIndexBrandWithComma(t *testing.T) {
	csv := fixtureCSV + `99.9,1,0.30,"Vans, Inc",2,Feminino
`
	s := setupServerCSV(t, csv, obs.Nop())
	rr := get(t, s.Handler(), "/?"+url.Values{"brand": {"Vans, Inc"}}.Encode())
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "1 of 5 rows") {
		t.Fatalf("brand with a comma should select its row")
	}
}

func TestIndexEmptySelectionStillRenders(t *testing.T) {
	s := setupServer(t, obs.Nop())
	rr := get(t, s.Handler(), "/?brand=Unknown")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	s := setupServer(t, obs.New("info", "json", &buf))
	get(t, s.Handler(), "/healthz")
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log: %v (%q)", err, buf.String())
	}
	if entry["message"] != "http_request" || entry["path"] != "/healthz" || entry["status"] != float64(200) {
		t.Fatalf("unexpected log entry: %v", entry)
	}
	if entry["request_id"] == "" {
		t.Fatalf("missing request id in log")
	}
}

func TestParseSelection(t *testing.T) {
	q := url.Values{"brand": {"Nike, Keeper", ""}, "season": {"1"}, "price_min": {" 10 "}}
	sel, err := ParseSelection(q)
	if err != nil {
		t.Fatalf("ParseSelection: %v", err)
	}
	if len(sel.Brands) != 2 || sel.Brands[1] != "Keeper" || len(sel.Seasons) != 1 {
		t.Fatalf("selection: %+v", sel)
	}
	if sel.PriceMin == nil || *sel.PriceMin != 10 || sel.PriceMax != nil {
		t.Fatalf("bounds: %+v", sel)
	}
}

func TestParseFormSelection(t *testing.T) {
	q := url.Values{"brand": {"Vans, Inc", " "}, "season": {"1,2"}, "price_min": {"90"}, "price_max": {"10"}}
	sel, err := parseFormSelection(q)
	if err != nil {
		t.Fatalf("parseFormSelection: %v", err)
	}
	if len(sel.Brands) != 1 || sel.Brands[0] != "Vans, Inc" || len(sel.Seasons) != 1 {
		t.Fatalf("option values must stay whole: %+v", sel)
	}
	if *sel.PriceMin != 10 || *sel.PriceMax != 90 {
		t.Fatalf("bounds not swapped: %v %v", *sel.PriceMin, *sel.PriceMax)
	}
	if _, err := parseFormSelection(url.Values{"price_min": {"NaN"}}); err == nil {
		t.Fatalf("expected error for NaN bound")
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(p, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	st, err := dataset.Load(p, dataset.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := New(st, Options{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, obs.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
