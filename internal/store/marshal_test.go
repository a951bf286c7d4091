package store

import (
	"reflect"
	"testing"

	"github.com/roach88/megac/internal/ir"
)

func TestMarshalProcedure_Canonical(t *testing.T) {
	p := ir.Object{
		"root":            ir.Object{"type": ir.String("assignments"), "assignments": ir.Array{}},
		"common_ancestor": ir.String("Door"),
	}
	got, err := marshalProcedure(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"common_ancestor":"Door","root":{"assignments":[],"type":"assignments"}}`
	if got != want {
		t.Errorf("marshalProcedure() = %s, want %s", got, want)
	}

	back, err := unmarshalProcedure(got)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, p) {
		t.Errorf("round trip = %#v, want %#v", back, p)
	}
}

func TestUnmarshalProcedure_Errors(t *testing.T) {
	for _, data := range []string{"", "[1]", `{"x":1.5}`, "{"} {
		if _, err := unmarshalProcedure(data); err == nil {
			t.Errorf("unmarshalProcedure(%q) succeeded, want error", data)
		}
	}
}
