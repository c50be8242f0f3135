package vdom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{VKind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPropsKeysSorted(t *testing.T) {
	p := Props{"title": "t", "class": "b", "id": "x", "data-a": "1"}
	want := []string{"class", "data-a", "id", "title"}
	if diff := cmp.Diff(want, p.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if got := (Props(nil)).Keys(); len(got) != 0 {
		t.Errorf("nil Props Keys() = %v, want empty", got)
	}
}

func TestVNodeString(t *testing.T) {
	node := H("ul", Props{"id": "list", "class": "a"},
		H("li", nil, "one"),
		Text("tail"),
	)
	want := `<ul class="a" id="list"><li>"one"</li>"tail"</ul>`
	if got := node.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}

	var nilNode *VNode
	if got := nilNode.String(); got != "<nil>" {
		t.Errorf("nil String() = %q", got)
	}
}

func TestKindPredicates(t *testing.T) {
	var nilNode *VNode
	if nilNode.IsText() || nilNode.IsElement() {
		t.Error("nil node should be neither text nor element")
	}
	if !Text("x").IsText() || Text("x").IsElement() {
		t.Error("Text node predicates wrong")
	}
	if !Div().IsElement() || Div().IsText() {
		t.Error("Element node predicates wrong")
	}
}

type label string

func (l label) String() string { return "label:" + string(l) }

func TestPropString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{1.5, "1.5"},
		{nil, ""},
		{label("a"), "label:a"},
		{uint8(3), "3"},
	}

	for _, tt := range tests {
		if got := PropString(tt.in); got != tt.want {
			t.Errorf("PropString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
