package cache

import (
	"testing"

	"github.com/leofalp/songscene/core/recovery"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "already normal", query: "evidências", want: "evidências"},
		{name: "trim and case", query: "  Evidências ", want: "evidências"},
		{name: "inner whitespace", query: "I  Will\tAlways\nLove You", want: "i will always love you"},
		{name: "blank", query: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewKey("ns", tt.query, recovery.ShapeStructured)
			if key.Query != tt.want {
				t.Errorf("NewKey().Query = %q, want %q", key.Query, tt.want)
			}
		})
	}
}

func TestKey_String(t *testing.T) {
	a := NewKey("openai/deepseek-chat", "Evidências", recovery.ShapeStructured)
	b := NewKey("openai/deepseek-chat", " evidências", recovery.ShapeStructured)
	if a.String() != b.String() {
		t.Errorf("equivalent queries produced different keys: %q and %q", a, b)
	}

	if got, want := a.String(), "openai/deepseek-chat|structured|evidências"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	otherShape := NewKey("openai/deepseek-chat", "Evidências", recovery.ShapeCompact)
	if a.String() == otherShape.String() {
		t.Error("keys for different shapes must differ")
	}

	otherModel := NewKey("gemini/gemini-2.0-flash-lite", "Evidências", recovery.ShapeStructured)
	if a.String() == otherModel.String() {
		t.Error("keys for different namespaces must differ")
	}
}

func TestClone(t *testing.T) {
	original := recovery.Result{Locations: recovery.MediaList{
		recovery.Structured(recovery.Media{Type: recovery.MediaFilm, Title: "Ghost", Year: 1990}),
		recovery.Compact("Novela: Avenida Brasil (2012)"),
	}}

	clone := Clone(original)
	clone.Locations[0].Media.Title = "changed"
	clone.Locations[1].Text = "changed"

	if original.Locations[0].Media.Title != "Ghost" {
		t.Errorf("Clone() shares media with the original")
	}
	if original.Locations[1].Text != "Novela: Avenida Brasil (2012)" {
		t.Errorf("Clone() shares the list with the original")
	}

	if empty := Clone(recovery.Result{}); empty.Locations == nil {
		t.Error("Clone() of a zero result should return an empty, non-nil list")
	}
}
