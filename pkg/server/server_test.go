package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/demo"
	"github.com/vango-dev/hookdom/pkg/hooks"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
	"github.com/vango-dev/hookdom/pkg/protocol"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg.App == nil {
		cfg.App = func() App { return demo.NewCounter(0) }
	}
	srv := New(cfg)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// counterMarkup renders a fresh counter at n.
func counterMarkup(t *testing.T, n int) string {
	t.Helper()
	doc := memhost.New()
	in := component.Mount(doc, doc.Root(), demo.NewCounter(n).Render)
	if err := in.RenderPass(context.Background()); err != nil {
		t.Fatal(err)
	}
	return memhost.InnerHTML(doc.Root())
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	typ, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if typ != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", typ)
	}
	return data
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestSnapshot(t *testing.T) {
	_, ts := newTestServer(t, &Config{
		App: func() App { return demo.NewCounter(2) },
	})

	resp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if want := counterMarkup(t, 2); string(body) != want {
		t.Errorf("snapshot:\n got %s\nwant %s", body, want)
	}
}

func TestMetricsRouteRequiresRegistry(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /metrics without registry = %d, want 404", resp.StatusCode)
	}
}

func TestWebSocketInitialFrame(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)

	data := readFrame(t, conn)
	f, err := protocol.DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	pf, err := protocol.DecodePatches(f.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if pf.Seq != 0 {
		t.Errorf("first frame seq = %d, want 0", pf.Seq)
	}
	if len(pf.Ops) != 1 || pf.Ops[0].Kind != host.OpAppendChild {
		t.Fatalf("first frame ops = %v, want one AppendChild", pf.Ops)
	}

	mirror := protocol.NewMirror(memhost.New())
	if err := mirror.ApplyFrame(f); err != nil {
		t.Fatal(err)
	}
	if got, want := memhost.InnerHTML(mirror.Doc().Root()), counterMarkup(t, 0); got != want {
		t.Errorf("mirror:\n got %s\nwant %s", got, want)
	}
}

func TestWebSocketTicks(t *testing.T) {
	_, ts := newTestServer(t, &Config{Tick: 5 * time.Millisecond})
	conn := dial(t, ts)

	mirror := protocol.NewMirror(memhost.New())
	for n := 0; n <= 5; n++ {
		if err := mirror.ApplyMessage(readFrame(t, conn)); err != nil {
			t.Fatalf("frame %d: %v", n, err)
		}
		seq, _ := mirror.Seq()
		if seq != uint64(n) {
			t.Fatalf("seq = %d, want %d", seq, n)
		}
		if got, want := memhost.InnerHTML(mirror.Doc().Root()), counterMarkup(t, n); got != want {
			t.Fatalf("after frame %d:\n got %s\nwant %s", n, got, want)
		}
	}
}

func TestWebSocketMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, ts := newTestServer(t, &Config{Registry: reg, MetricsNamespace: "srvtest"})
	conn := dial(t, ts)
	readFrame(t, conn)

	eventually(t, "session gauge", func() bool { return srv.SessionCount() == 1 })

	scrape := func() string {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}
	eventually(t, "pass metrics", func() bool {
		body := scrape()
		return strings.Contains(body, `srvtest_render_passes_total{status="success"} 1`) &&
			strings.Contains(body, "srvtest_frames_sent_total 1") &&
			strings.Contains(body, "srvtest_sessions_active 1")
	})

	conn.Close()
	eventually(t, "session close", func() bool { return srv.SessionCount() == 0 })
	if body := scrape(); !strings.Contains(body, "srvtest_sessions_active 0") {
		t.Errorf("sessions_active not back to 0:\n%s", body)
	}
}

type panicApp struct{}

func (panicApp) Render(h *hooks.Hooks) *vdom.VNode {
	panic("broken component")
}

func TestWebSocketInitialRenderError(t *testing.T) {
	_, ts := newTestServer(t, &Config{App: func() App { return panicApp{} }})
	conn := dial(t, ts)

	mirror := protocol.NewMirror(memhost.New())
	if err := mirror.ApplyMessage(readFrame(t, conn)); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if memhost.InnerHTML(mirror.Doc().Root()) != "" {
		t.Error("failed pass should not have changed the mirror")
	}

	err := mirror.ApplyMessage(readFrame(t, conn))
	var em *protocol.ErrorMessage
	if !errors.As(err, &em) {
		t.Fatalf("second frame error = %v, want *ErrorMessage", err)
	}
	if em.Code != "E110" || !strings.Contains(em.Message, "broken component") {
		t.Errorf("error message = %+v", em)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("after error frame: %v, want normal close", err)
	}
}

type rowsApp struct{ n int }

func (a rowsApp) Render(h *hooks.Hooks) *vdom.VNode {
	return vdom.Ul(vdom.ID("rows"), vdom.Repeat(a.n, func(i int) *vdom.VNode {
		return vdom.Li(vdom.Class("row"), vdom.Data("i", strconv.Itoa(i)), vdom.Textf("row number %d", i))
	}))
}

func TestWebSocketStreamsLargeTree(t *testing.T) {
	app := rowsApp{n: 3000}
	_, ts := newTestServer(t, &Config{App: func() App { return app }})
	conn := dial(t, ts)

	mirror := protocol.NewMirror(memhost.New())
	frames := 0
	for {
		if err := mirror.ApplyMessage(readFrame(t, conn)); err != nil {
			t.Fatalf("frame %d: %v", frames, err)
		}
		frames++
		if !mirror.Pending() {
			break
		}
	}
	if frames < 2 {
		t.Errorf("initial pass sent in %d frame, want it split", frames)
	}
	if seq, _ := mirror.Seq(); seq != 0 {
		t.Errorf("seq = %d, want 0", seq)
	}

	doc := memhost.New()
	in := component.Mount(doc, doc.Root(), app.Render)
	if err := in.RenderPass(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := memhost.InnerHTML(doc.Root())
	if len(want) <= protocol.MaxPayloadSize {
		t.Fatalf("tree is only %d bytes", len(want))
	}
	if got := memhost.InnerHTML(mirror.Doc().Root()); got != want {
		t.Errorf("mirror differs from a local render (%d vs %d bytes)", len(got), len(want))
	}
}

type blobApp struct{}

func (blobApp) Render(h *hooks.Hooks) *vdom.VNode {
	return vdom.Div(vdom.Data("blob", strings.Repeat("x", protocol.MaxPayloadSize)))
}

func TestWebSocketUnencodablePass(t *testing.T) {
	_, ts := newTestServer(t, &Config{App: func() App { return blobApp{} }})
	conn := dial(t, ts)

	err := protocol.NewMirror(memhost.New()).ApplyMessage(readFrame(t, conn))
	var em *protocol.ErrorMessage
	if !errors.As(err, &em) {
		t.Fatalf("first frame error = %v, want *ErrorMessage", err)
	}
	if em.Code != "E121" || !strings.Contains(em.Message, "too large") {
		t.Errorf("error message = %+v, want E121 frame too large", em)
	}
}

func TestCrossOriginRejected(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("cross-origin dial succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestAllowOrigins(t *testing.T) {
	check := AllowOrigins("http://app.example")
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://app.example", true},
		{"http://evil.example", false},
		{"http://" + "server.test", true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://server.test/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := check(r); got != tt.want {
			t.Errorf("origin %q: got %v, want %v", tt.origin, got, tt.want)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "http://server.test/ws", nil)
	r.Header.Set("Origin", "http://anything.example")
	if !AllowOrigins("*")(r) {
		t.Error(`"*" should allow any origin`)
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	srv, ts := newTestServer(t, &Config{})
	conn := dial(t, ts)
	readFrame(t, conn)
	eventually(t, "session", func() bool { return srv.SessionCount() == 1 })

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if srv.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d after shutdown", srv.SessionCount())
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("client read after shutdown: %v, want normal close", err)
	}

	// New sessions are refused.
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("dial after shutdown succeeded")
	} else if resp != nil && resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status after shutdown = %d", resp.StatusCode)
	}
}

func TestNewRequiresApp(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New without App did not panic")
		}
	}()
	New(&Config{})
}
