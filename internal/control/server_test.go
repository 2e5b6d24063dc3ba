package control

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/textmarquee/marquee"
)

func newTestServer(t *testing.T) (*httptest.Server, map[string]*marquee.Marquee) {
	t.Helper()
	log.SetOutput(io.Discard)
	marquees := make(map[string]*marquee.Marquee)
	for _, name := range []string{"pong", "hello"} {
		m, err := marquee.New(name,
			marquee.WithUpdateInterval(time.Hour),
			marquee.WithRenderer(marquee.RendererFunc(func(string) error { return nil })),
		)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(m.Stop)
		marquees[name] = m
	}
	ts := httptest.NewServer(New("", marquees).Handler())
	t.Cleanup(ts.Close)
	return ts, marquees
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(data)
}

func TestList(t *testing.T) {
	ts, _ := newTestServer(t)
	status, body := do(t, "GET", ts.URL+"/api/marquees", "")
	if status != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", status, body)
	}
	var list []MarqueeInfo
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Name != "hello" || list[1].Name != "pong" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[1].Window != "pong     pong     po" {
		t.Errorf("unexpected window %q", list[1].Window)
	}
	if list[1].Direction != "Forward" || list[1].Interval != "1h0m0s" {
		t.Errorf("unexpected state %+v", list[1])
	}
}

func TestUpdate(t *testing.T) {
	ts, marquees := newTestServer(t)
	m := marquees["pong"]
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		check  func() bool
	}{
		{
			name: "update text", method: "PUT", path: "/text", body: "PONG", status: http.StatusOK,
			check: func() bool { return m.Text() == "PONG" && m.Window() == "pong     pong     po" },
		},
		{
			name: "set text", method: "PUT", path: "/text?mode=set", body: "ping", status: http.StatusOK,
			check: func() bool { return m.Window() == "ping     ping     pi" },
		},
		{
			name: "unknown mode", method: "PUT", path: "/text?mode=swap", body: "x", status: http.StatusBadRequest,
			check: func() bool { return m.Text() == "ping" },
		},
		{
			name: "direction", method: "PUT", path: "/direction", body: "right", status: http.StatusOK,
			check: func() bool { return m.Direction() == marquee.Reverse },
		},
		{
			name: "bad direction", method: "PUT", path: "/direction", body: "up", status: http.StatusBadRequest,
			check: func() bool { return m.Direction() == marquee.Reverse },
		},
		{
			name: "step", method: "PUT", path: "/step", body: "0.5", status: http.StatusOK,
			check: func() bool { return m.ScrollStep() == 0.5 },
		},
		{
			name: "zero step", method: "PUT", path: "/step", body: "0", status: http.StatusBadRequest,
			check: func() bool { return m.ScrollStep() == 0.5 },
		},
		{
			name: "interval", method: "PUT", path: "/interval", body: "2h", status: http.StatusOK,
			check: func() bool { return m.Interval() == 2*time.Hour && m.Running() },
		},
		{
			name: "bad interval", method: "PUT", path: "/interval", body: "soon", status: http.StatusBadRequest,
			check: func() bool { return m.Interval() == 2*time.Hour },
		},
		{
			name: "stop", method: "POST", path: "/stop", status: http.StatusOK,
			check: func() bool { return !m.Running() },
		},
		{
			name: "start", method: "POST", path: "/start", status: http.StatusOK,
			check: func() bool { return m.Running() },
		},
		{
			name: "wrong method", method: "GET", path: "/start", status: http.StatusMethodNotAllowed,
			check: func() bool { return true },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			status, body := do(t, test.method, ts.URL+"/api/marquees/pong"+test.path, test.body)
			if status != test.status {
				t.Fatalf("want %d, got %d: %s", test.status, status, body)
			}
			if !test.check() {
				t.Errorf("state check failed after %s", test.name)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	status, _ := do(t, "GET", ts.URL+"/api/marquees/ping", "")
	if status != http.StatusNotFound {
		t.Errorf("want 404, got %d", status)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts, marquees := newTestServer(t)
	tests := []struct {
		method string
		path   string
	}{
		{method: "GET", path: "/api/marquees/pong/start"},
		{method: "GET", path: "/api/marquees/pong/stop"},
		{method: "POST", path: "/api/marquees/pong/text"},
		{method: "DELETE", path: "/api/marquees/pong"},
		{method: "PUT", path: "/api/marquees"},
	}
	for _, test := range tests {
		status, body := do(t, test.method, ts.URL+test.path, "")
		if status != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: want 405, got %d: %s", test.method, test.path, status, body)
		}
	}
	if marquees["pong"].Running() {
		t.Error("rejected request started marquee")
	}
}
