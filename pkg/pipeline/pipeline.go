package pipeline

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
)

// Handler advances the build by reading and mutating the shared build context.
type Handler func(ctx context.Context, b *Context) error

// Middleware is a task's contribution to the pipeline: it receives the handler
// for everything downstream and returns a handler that wraps it. A middleware
// that never calls next skips all downstream tasks; that is the pipeline's
// short-circuit mechanism, not an error.
type Middleware func(next Handler) Handler

// Invocation is one requested task run: a registered name plus its arguments.
type Invocation struct {
	Name string
	Args []string
}

func terminal(context.Context, *Context) error {
	return nil
}

// Build resolves every invocation against the registry, instantiates each
// task's middleware and folds them right-to-left into a single handler. Any
// unknown task or rejected argument list fails the whole build here, before
// any handler runs. An empty invocation list composes to the identity handler.
//
// For invocations [T1 .. Tn] the composed handler runs T1's before logic
// first, Tn's last, then unwinds so Tn's after logic runs first and T1's last.
func Build(reg *Registry, invocations []Invocation) (Handler, error) {
	middlewares := make([]Middleware, len(invocations))
	for idx, inv := range invocations {
		spec, err := reg.Resolve(inv.Name)
		if err != nil {
			return nil, err
		}

		if spec.Factory == nil {
			return nil, eris.Errorf("task %s has no entry point registered", inv.Name)
		}

		mw, err := spec.Factory(reg, inv.Args)
		if err != nil {
			var invErr *InvocationError
			if !errors.As(err, &invErr) {
				err = &InvocationError{Task: inv.Name, Reason: err.Error()}
			}

			return nil, err
		}

		middlewares[idx] = mw
	}

	handler := Handler(terminal)
	for idx := len(middlewares) - 1; idx >= 0; idx-- {
		handler = middlewares[idx](handler)
	}

	return handler, nil
}
