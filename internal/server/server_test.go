package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/srcalc/eval"
	"github.com/npillmayer/srcalc/internal/display"
)

func newTestServer(t *testing.T) *Server {
	ctx := context.Background()
	ev := eval.NewEvaluator(ctx, 2)
	t.Cleanup(func() { ev.Close(ctx) })
	return New(ev, display.ForLocale("en-US", true))
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	return m
}

func TestEvalQuery(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	srv := newTestServer(t)
	expr := "2 * 3 * 4 * 5 * 6 * 7 * 8 * 9 * 10 * 11 * 12"
	req := httptest.NewRequest("GET", "/v1/eval?expr="+url.QueryEscape(expr), nil)
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, have %d", resp.StatusCode)
	}
	m := decode(t, resp.Body)
	if m["value"] != float64(479001600) || m["display"] != "479,001,600" || m["expr"] != expr {
		t.Errorf("unexpected response %v", m)
	}
}

func TestEvalBody(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	srv := newTestServer(t)
	req := httptest.NewRequest("POST", "/v1/eval", strings.NewReader(`{"expr": "(1 + 2) * 3"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected status 200, have %d", resp.StatusCode)
	}
	if m := decode(t, resp.Body); m["value"] != float64(9) {
		t.Errorf("expected value 9, have %v", m)
	}
}

func TestEvalFaults(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	srv := newTestServer(t)
	samples := []struct {
		expr   string
		code   int
		status string
	}{
		{"1 + * 2", 400, "MALFORMED_INPUT"},
		{"(1", 400, "MALFORMED_INPUT"},
		{"x", 400, "MALFORMED_INPUT"},
		{"99999999999999999999", 422, "OUT_OF_RANGE"},
		{strings.Repeat("1+", MaxExprLen) + "1", 413, "INVALID_ARGUMENT"},
	}
	for i, s := range samples {
		body := `{"expr": "` + s.expr + `"}`
		req := httptest.NewRequest("POST", "/v1/eval", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.App().Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != s.code {
			t.Errorf("sample #%d: expected status %d, have %d", i, s.code, resp.StatusCode)
			continue
		}
		m := decode(t, resp.Body)
		e, _ := m["error"].(map[string]interface{})
		if e == nil || e["status"] != s.status {
			t.Errorf("sample #%d: expected error status %s, have %v", i, s.status, m)
		}
	}
}

func TestFaultPosition(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("GET", "/v1/eval?expr="+url.QueryEscape("1 + * 2"), nil)
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	e, _ := decode(t, resp.Body)["error"].(map[string]interface{})
	if e == nil || e["position"] != float64(4) {
		t.Fatalf("expected fault position 4, have %v", e)
	}
	expected, _ := e["expected"].([]interface{})
	if len(expected) != 2 || expected[0] != "(" || expected[1] != "digits" {
		t.Errorf("expected '(' and digits to be listed as acceptable, have %v", e["expected"])
	}
}

func TestInvalidBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("POST", "/v1/eval", strings.NewReader(`{"expr": `))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("expected status 400 for broken JSON, have %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := srv.App().Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, have %d", resp.StatusCode)
	}
}
