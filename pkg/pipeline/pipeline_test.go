package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

// markerTask appends "<name>-before" on the way in and "<name>-after" on the
// way out, so tests can assert the exact execution order.
func markerTask(name string) Factory {
	return func(reg *Registry, args []string) (Middleware, error) {
		return func(next Handler) Handler {
			return func(ctx context.Context, b *Context) error {
				b.Append("markers", name+"-before")
				err := next(ctx, b)
				if err != nil {
					return err
				}

				b.Append("markers", name+"-after")
				return nil
			}
		}, nil
	}
}

// haltTask never invokes its next handler.
func haltTask(reg *Registry, args []string) (Middleware, error) {
	return func(next Handler) Handler {
		return func(ctx context.Context, b *Context) error {
			b.Append("markers", "halt")
			return nil
		}
	}, nil
}

func markerRegistry(names ...string) *Registry {
	reg := NewRegistry()
	for _, name := range names {
		reg.Register(Spec{Name: name, Factory: markerTask(name)})
	}

	return reg
}

func TestOnionOrdering(t *testing.T) {
	reg := markerRegistry("build", "test")

	handler, err := Build(reg, []Invocation{{Name: "build"}, {Name: "test"}})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	b := NewContext(reg)
	err = handler(testContext(), b)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	want := []string{"build-before", "test-before", "test-after", "build-after"}
	if !reflect.DeepEqual(b.GetStrings("markers"), want) {
		t.Errorf("expected markers %v, got %v", want, b.GetStrings("markers"))
	}
}

func TestShortCircuit(t *testing.T) {
	reg := markerRegistry("first", "third")
	reg.Register(Spec{Name: "halt", Factory: haltTask})

	handler, err := Build(reg, []Invocation{
		{Name: "first"},
		{Name: "halt"},
		{Name: "third"},
	})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	b := NewContext(reg)
	err = handler(testContext(), b)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	want := []string{"first-before", "halt", "first-after"}
	if !reflect.DeepEqual(b.GetStrings("markers"), want) {
		t.Errorf("expected markers %v, got %v", want, b.GetStrings("markers"))
	}
}

func TestEmptyPipeline(t *testing.T) {
	reg := NewRegistry()

	handler, err := Build(reg, nil)
	if err != nil {
		t.Fatalf("failed to build empty pipeline: %v", err)
	}

	b := NewContext(reg)
	err = handler(testContext(), b)
	if err != nil {
		t.Errorf("identity handler returned error: %v", err)
	}
}

func TestBuildUnknownTask(t *testing.T) {
	reg := markerRegistry("build")

	_, err := Build(reg, []Invocation{{Name: "build"}, {Name: "missing"}})
	if err == nil {
		t.Fatal("expected an error for an unregistered task")
	}

	var unknown *UnknownTaskError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTaskError, got %v", err)
	}

	if unknown.Task != "missing" {
		t.Errorf("expected the error to name task \"missing\", got %q", unknown.Task)
	}
}

func TestBuildFailsBeforeExecution(t *testing.T) {
	reg := markerRegistry("build")

	b := NewContext(reg)
	_, err := Build(reg, []Invocation{{Name: "build"}, {Name: "missing"}})
	if err == nil {
		t.Fatal("expected an error for an unregistered task")
	}

	if markers := b.GetStrings("markers"); len(markers) > 0 {
		t.Errorf("no task should have run, but markers are %v", markers)
	}
}

func TestBuildInvocationError(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Spec{
		Name: "strict",
		Factory: func(reg *Registry, args []string) (Middleware, error) {
			if len(args) != 1 {
				return nil, eris.Errorf("expected exactly one argument, got %d", len(args))
			}

			return func(next Handler) Handler { return next }, nil
		},
	})

	_, err := Build(reg, []Invocation{{Name: "strict", Args: []string{"a", "b"}}})
	if err == nil {
		t.Fatal("expected an invocation error")
	}

	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %v", err)
	}

	if invErr.Task != "strict" {
		t.Errorf("expected the error to name task \"strict\", got %q", invErr.Task)
	}
}

func TestErrorUnwindsPipeline(t *testing.T) {
	reg := markerRegistry("outer")
	reg.Register(Spec{
		Name: "boom",
		Factory: func(reg *Registry, args []string) (Middleware, error) {
			return func(next Handler) Handler {
				return func(ctx context.Context, b *Context) error {
					return eris.New("boom")
				}
			}, nil
		},
	})

	handler, err := Build(reg, []Invocation{{Name: "outer"}, {Name: "boom"}})
	if err != nil {
		t.Fatalf("failed to build pipeline: %v", err)
	}

	b := NewContext(reg)
	err = handler(testContext(), b)
	if err == nil {
		t.Fatal("expected the failure to propagate")
	}

	// outer's after section must not run since it doesn't guard with a defer
	want := []string{"outer-before"}
	if !reflect.DeepEqual(b.GetStrings("markers"), want) {
		t.Errorf("expected markers %v, got %v", want, b.GetStrings("markers"))
	}
}
