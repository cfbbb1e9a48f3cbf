package station

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIBind {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIBind)
	}

	u, err = parseBaseURL("http://192.168.0.2:8080/hmi?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchSnapshotAndSetManual(t *testing.T) {
	t.Parallel()

	var gotManual []string
	var gotMethod string
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/update":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"timeOfDay":1,"waterLevelHigh":0,"gateOpen":0,"pumpOn":1,"manualControl":0}`))
		case "/manual":
			gotMethod = r.Method
			gotManual = append(gotManual, r.URL.Query().Get("s"))
			_, _ = w.Write([]byte("ok"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	snap, err := c.FetchSnapshot(ctx)
	if err != nil {
		t.Fatalf("FetchSnapshot returned error: %v", err)
	}
	if !snap.TimeOfDay || snap.WaterLevelHigh || snap.GateOpen || !snap.PumpOn {
		t.Fatalf("FetchSnapshot payload = %#v, want day/low/closed/on", snap)
	}
	if !snap.SupportsManualControl() || snap.Manual() {
		t.Fatalf("manualControl = %v, want present and auto", snap.ManualControl)
	}

	if err := c.SetManual(ctx, true); err != nil {
		t.Fatalf("SetManual(true) returned error: %v", err)
	}
	if err := c.SetManual(ctx, false); err != nil {
		t.Fatalf("SetManual(false) returned error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("manual method = %q, want POST", gotMethod)
	}
	if len(gotManual) != 2 || gotManual[0] != "1" || gotManual[1] != "0" {
		t.Fatalf("manual s values = %v, want [1 0]", gotManual)
	}
	if !strings.HasPrefix(gotUserAgent, "pshhmi/") {
		t.Fatalf("User-Agent = %q, want pshhmi/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "nope", status)
			return
		}
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchSnapshot(context.Background())
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("FetchSnapshot error = %v, want ErrMalformed", err)
	}

	status = http.StatusInternalServerError
	_, err = c.FetchSnapshot(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchSnapshot error = %v, want status 500 error", err)
	}
	if err := c.SetManual(context.Background(), true); err == nil {
		t.Fatalf("SetManual returned nil error, want status error")
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchSnapshot(context.Background()); err == nil {
		t.Fatalf("FetchSnapshot on nil client returned nil error")
	}
	if err := c.SetManual(context.Background(), true); err == nil {
		t.Fatalf("SetManual on nil client returned nil error")
	}
}
