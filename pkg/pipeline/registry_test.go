package pipeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveUnknown(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve("nope")
	if err == nil {
		t.Fatal("expected an error for an unregistered task")
	}

	var unknown *UnknownTaskError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTaskError, got %v", err)
	}
}

func TestRegisterOverwrites(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Spec{Name: "task", Short: "old"})
	reg.Register(Spec{Name: "task", Short: "new"})

	spec, err := reg.Resolve("task")
	if err != nil {
		t.Fatalf("failed to resolve task: %v", err)
	}

	if spec.Short != "new" {
		t.Errorf("expected the later registration to win, got %q", spec.Short)
	}
}

func TestNamesSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Spec{Name: "zeta"})
	reg.Register(Spec{Name: "alpha"})
	reg.Register(Spec{Name: "mid"})

	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(reg.Names(), want) {
		t.Errorf("expected %v, got %v", want, reg.Names())
	}
}

func TestShortDesc(t *testing.T) {
	testCases := []struct {
		name string
		spec Spec
		want string
	}{
		{"explicit short", Spec{Short: "short", Long: "long doc\nmore"}, "short"},
		{"first line of long", Spec{Long: "first line\nsecond line"}, "first line"},
		{"leading whitespace", Spec{Long: "\n  padded doc\nrest"}, "padded doc"},
		{"empty", Spec{}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.spec.ShortDesc(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
