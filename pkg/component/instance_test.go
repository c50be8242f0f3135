package component

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/hookdom/pkg/hooks"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// counter renders <p data-n="N">N</p> and exposes its setter through set.
func counter(set *func(int)) RenderFunc {
	return func(h *hooks.Hooks) *vdom.VNode {
		n, setN := hooks.State(h, 0)
		*set = setN
		return vdom.H("p", vdom.Props{"data-n": n}, vdom.Textf("%d", n))
	}
}

func TestRenderPassInitial(t *testing.T) {
	doc := memhost.New()
	var set func(int)
	inst := Mount(doc, doc.Root(), counter(&set))

	if err := inst.RenderPass(context.Background()); err != nil {
		t.Fatalf("RenderPass: %v", err)
	}
	if got := memhost.HTML(doc.Root()); got != `<body><p data-n="0">0</p></body>` {
		t.Errorf("HTML = %s", got)
	}
	if inst.Passes() != 1 {
		t.Errorf("Passes() = %d, want 1", inst.Passes())
	}
	if inst.Tree() == nil || inst.Tree().Tag != "p" {
		t.Errorf("Tree() = %v", inst.Tree())
	}
}

func TestFlushOnePassPerChange(t *testing.T) {
	doc := memhost.New()
	var set func(int)
	var passes []*Pass
	record := func(next PassFunc) PassFunc {
		return func(ctx context.Context, p *Pass) error {
			err := next(ctx, p)
			passes = append(passes, p)
			return err
		}
	}
	inst := Mount(doc, doc.Root(), counter(&set), WithMiddleware(record))
	ctx := context.Background()
	if err := inst.RenderPass(ctx); err != nil {
		t.Fatal(err)
	}

	set(1)
	set(1) // strictly equal: no change
	set(2)
	if inst.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", inst.Pending())
	}
	if inst.Passes() != 1 {
		t.Fatalf("setter rendered synchronously: Passes() = %d", inst.Passes())
	}

	if err := inst.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if inst.Passes() != 3 {
		t.Errorf("Passes() = %d, want 3", inst.Passes())
	}
	if inst.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", inst.Pending())
	}
	if got := memhost.HTML(doc.Root()); got != `<body><p data-n="2">2</p></body>` {
		t.Errorf("HTML = %s", got)
	}

	wantOps := []map[host.OpKind]int{
		{host.OpCreateElement: 1, host.OpSetAttribute: 1, host.OpCreateText: 1, host.OpAppendChild: 2},
		{host.OpSetAttribute: 1, host.OpCreateText: 1, host.OpReplaceChild: 1},
		{},
	}
	var gotOps []map[host.OpKind]int
	for i, p := range passes {
		if p.Number != i+1 {
			t.Errorf("passes[%d].Number = %d", i, p.Number)
		}
		gotOps = append(gotOps, p.Ops)
	}
	if diff := cmp.Diff(wantOps, gotOps); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}
	if passes[1].Mutations() != 2 || passes[1].OpCount() != 3 {
		t.Errorf("pass 2: Mutations() = %d, OpCount() = %d", passes[1].Mutations(), passes[1].OpCount())
	}
}

func TestSetterDuringRender(t *testing.T) {
	doc := memhost.New()
	inst := Mount(doc, doc.Root(), func(h *hooks.Hooks) *vdom.VNode {
		n, setN := hooks.State(h, 0)
		if n < 3 {
			setN(n + 1)
		}
		return vdom.Textf("%d", n)
	})
	ctx := context.Background()

	if err := inst.RenderPass(ctx); err != nil {
		t.Fatal(err)
	}
	if err := inst.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if inst.Passes() != 4 {
		t.Errorf("Passes() = %d, want 4", inst.Passes())
	}
	if got := memhost.InnerHTML(doc.Root()); got != "3" {
		t.Errorf("markup = %q, want 3", got)
	}
}

func TestMiddlewareOrder(t *testing.T) {
	var trace []string
	named := func(name string) Middleware {
		return func(next PassFunc) PassFunc {
			return func(ctx context.Context, p *Pass) error {
				trace = append(trace, name+" in")
				err := next(ctx, p)
				trace = append(trace, name+" out")
				return err
			}
		}
	}

	doc := memhost.New()
	inst := Mount(doc, doc.Root(), func(h *hooks.Hooks) *vdom.VNode {
		trace = append(trace, "render")
		return vdom.H("div", nil)
	}, WithMiddleware(named("a")), WithMiddleware(named("b")))

	if err := inst.RenderPass(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []string{"a in", "b in", "render", "b out", "a out"}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlushStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	fail := func(next PassFunc) PassFunc {
		return func(ctx context.Context, p *Pass) error {
			if p.Number > 1 {
				return boom
			}
			return next(ctx, p)
		}
	}

	doc := memhost.New()
	var set func(int)
	inst := Mount(doc, doc.Root(), counter(&set), WithMiddleware(fail))
	ctx := context.Background()
	if err := inst.RenderPass(ctx); err != nil {
		t.Fatal(err)
	}
	set(1)
	set(2)

	if err := inst.Flush(ctx); !errors.Is(err, boom) {
		t.Fatalf("Flush error = %v, want boom", err)
	}
	if inst.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", inst.Pending())
	}
}

func TestFlushCanceled(t *testing.T) {
	doc := memhost.New()
	var set func(int)
	inst := Mount(doc, doc.Root(), counter(&set))
	if err := inst.RenderPass(context.Background()); err != nil {
		t.Fatal(err)
	}
	set(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := inst.Flush(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Flush error = %v, want context.Canceled", err)
	}
	if inst.Passes() != 1 {
		t.Errorf("Passes() = %d, want 1", inst.Passes())
	}
}

func TestRunDispatch(t *testing.T) {
	doc := memhost.New()
	var set func(int)
	done := make(chan *Pass, 8)
	notify := func(next PassFunc) PassFunc {
		return func(ctx context.Context, p *Pass) error {
			err := next(ctx, p)
			done <- p
			return err
		}
	}
	inst := Mount(doc, doc.Root(), counter(&set), WithMiddleware(notify))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- inst.Run(ctx) }()

	wait := func() *Pass {
		t.Helper()
		select {
		case p := <-done:
			return p
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a pass")
			return nil
		}
	}

	if p := wait(); p.Number != 1 {
		t.Errorf("first pass Number = %d", p.Number)
	}
	inst.Dispatch(func() { set(5) })
	if p := wait(); p.Number != 2 || p.Tree.Props["data-n"] != 5 {
		t.Errorf("second pass = %d %v", p.Number, p.Tree)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	<-inst.Done()

	if got := memhost.HTML(doc.Root()); got != `<body><p data-n="5">5</p></body>` {
		t.Errorf("HTML = %s", got)
	}

	// Dropped once the loop is gone.
	inst.Dispatch(func() { t.Error("dispatched after Run returned") })
}

func TestRunInitialPassError(t *testing.T) {
	boom := errors.New("boom")
	doc := memhost.New()
	inst := Mount(doc, doc.Root(), func(h *hooks.Hooks) *vdom.VNode {
		return vdom.H("div", nil)
	}, WithMiddleware(func(next PassFunc) PassFunc {
		return func(ctx context.Context, p *Pass) error { return boom }
	}))

	if err := inst.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want boom", err)
	}
}

func TestHookOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	doc := memhost.New()
	var set func(int)
	inst := Mount(doc, doc.Root(), func(h *hooks.Hooks) *vdom.VNode {
		n, setN := hooks.State(h, 0)
		set = setN
		if n > 0 {
			hooks.State(h, "extra")
		}
		return vdom.Textf("%d", n)
	}, WithHookOptions(hooks.WithOrderCheck(logger)))

	ctx := context.Background()
	if err := inst.RenderPass(ctx); err != nil {
		t.Fatal(err)
	}
	set(1)
	set(2)
	if err := inst.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "E100") {
		t.Errorf("expected E100 warning, log:\n%s", buf.String())
	}
	if inst.Hooks().Len() != 2 {
		t.Errorf("Hooks().Len() = %d, want 2", inst.Hooks().Len())
	}
}
