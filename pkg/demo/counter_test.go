package demo

import (
	"context"
	"testing"

	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/host"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
)

func TestCounterMarkup(t *testing.T) {
	doc := memhost.New()
	c := NewCounter(0)
	in := component.Mount(doc, doc.Root(), c.Render)
	ctx := context.Background()

	if err := in.RenderPass(ctx); err != nil {
		t.Fatal(err)
	}
	want := `<div class="counter even" id="counter"><h1>hookdom</h1><p data-count="0">Count: 0</p><ul></ul></div>`
	if got := memhost.InnerHTML(doc.Root()); got != want {
		t.Fatalf("initial markup:\n got %s\nwant %s", got, want)
	}

	c.Tick()
	c.Tick() // same count as the first call: no second change
	if in.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", in.Pending())
	}
	if err := in.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	want = `<div class="counter odd" id="counter"><h1>hookdom</h1><p data-count="1">Count: 1</p><ul><li>item 0</li></ul></div>`
	if got := memhost.InnerHTML(doc.Root()); got != want {
		t.Fatalf("after tick:\n got %s\nwant %s", got, want)
	}
	if c.Count() != 1 {
		t.Errorf("Count() = %d, want 1", c.Count())
	}
}

func TestCounterListWraps(t *testing.T) {
	doc := memhost.New()
	c := NewCounter(3)
	in := component.Mount(doc, doc.Root(), c.Render)
	ctx := context.Background()
	if err := in.RenderPass(ctx); err != nil {
		t.Fatal(err)
	}
	doc.ResetJournal()

	c.Tick()
	if err := in.Flush(ctx); err != nil {
		t.Fatal(err)
	}

	// 3 -> 4 drops all three list items, last first.
	var removed []int
	for _, op := range doc.Attached() {
		if op.Kind == host.OpRemoveChild {
			removed = append(removed, op.Index)
		}
	}
	if len(removed) != 3 || removed[0] != 2 || removed[2] != 0 {
		t.Errorf("removed indexes = %v, want [2 1 0]", removed)
	}
}

func TestTickBeforeRender(t *testing.T) {
	c := NewCounter(5)
	c.Tick()
	if c.Count() != 0 {
		t.Errorf("Count() = %d before render", c.Count())
	}
}
