package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
)

// Harness is a component mounted on a fresh in-memory document.
type Harness struct {
	t    testing.TB
	doc  *memhost.Document
	inst *component.Instance
}

// Mount mounts fn and runs its initial pass. The test fails if the pass
// fails.
func Mount(t testing.TB, fn component.RenderFunc, opts ...component.Option) *Harness {
	t.Helper()
	doc := memhost.New()
	h := &Harness{
		t:    t,
		doc:  doc,
		inst: component.Mount(doc, doc.Root(), fn, opts...),
	}
	if err := h.inst.RenderPass(context.Background()); err != nil {
		t.Fatalf("initial render: %v", err)
	}
	return h
}

// Doc returns the document the component renders into.
func (h *Harness) Doc() *memhost.Document {
	return h.doc
}

// Instance returns the mounted instance.
func (h *Harness) Instance() *component.Instance {
	return h.inst
}

// Flush renders every pending state change. The test fails on the first
// failing pass.
func (h *Harness) Flush() {
	h.t.Helper()
	if err := h.inst.Flush(context.Background()); err != nil {
		h.t.Fatalf("flush after pass %d: %v", h.inst.Passes(), err)
	}
}

// HTML returns the markup under the document root.
func (h *Harness) HTML() string {
	return memhost.InnerHTML(h.doc.Root())
}

// TakeOps returns the attached mutations since the last call, in compact
// form, and clears them.
func (h *Harness) TakeOps() []string {
	ops := h.doc.Attached()
	h.doc.ResetJournal()
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.String()
	}
	return out
}

// ExpectOps asserts the attached mutations since the last TakeOps, then
// clears them.
func (h *Harness) ExpectOps(want ...string) {
	h.t.Helper()
	got := h.TakeOps()
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		h.t.Errorf("host ops mismatch (-want +got):\n%s", diff)
	}
}

// ExpectHTML asserts the full markup under the root.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("markup mismatch:\n got %s\nwant %s", got, want)
	}
}

// ExpectContains asserts that the markup contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the markup does not contain unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that the markup contains a tag.
func (h *Harness) ExpectElement(tag string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, "<"+tag+">") && !strings.Contains(html, "<"+tag+" ") {
		h.t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the markup contains attr="value".
func (h *Harness) ExpectAttribute(attr, value string) {
	h.t.Helper()
	html := h.HTML()
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		h.t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// ExpectPasses asserts the number of passes run so far.
func (h *Harness) ExpectPasses(n int) {
	h.t.Helper()
	if got := h.inst.Passes(); got != n {
		h.t.Errorf("passes = %d, want %d", got, n)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
