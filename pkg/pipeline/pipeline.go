// Package pipeline executes a single step invocation against the shared
// world: before-step hooks, then the step body, then after-step hooks,
// with the step body's failure captured and re-raised only after the
// after-step hooks have run.
package pipeline

import (
	"fmt"

	"github.com/hiram-madelaine/jukebox/internal/logger"
	jberrors "github.com/hiram-madelaine/jukebox/pkg/errors"
	"github.com/hiram-madelaine/jukebox/pkg/glue"
	"github.com/hiram-madelaine/jukebox/pkg/world"
)

// Pipeline runs step invocations sequentially against a world store. Step
// hooks are read from the registry at invocation time, so hooks registered
// after binding still apply.
type Pipeline struct {
	store *world.Store
	reg   *glue.Registry
	log   *logger.Logger
}

// New returns a pipeline bound to a store and a registry. The logger may
// be nil.
func New(store *world.Store, reg *glue.Registry, log *logger.Logger) *Pipeline {
	return &Pipeline{store: store, reg: reg, log: log}
}

// Run executes one step attempt: every before-step hook in registration
// order, the step body, then every after-step hook in registration order.
//
// A failure from the step body (returned error or panic) is captured into
// the world under the reserved error key, the after-step hooks still run,
// and the failure is returned afterwards wrapped in *errors.StepError.
// Hook failures are not captured: they propagate immediately and
// short-circuit the remaining phases.
func (p *Pipeline) Run(def glue.StepDefinition, args []any) error {
	before, after := p.reg.StepHooks()

	for _, hook := range before {
		if _, err := p.applyStepHook(hook); err != nil {
			return jberrors.NewHookError("before-step", err)
		}
	}

	current, err := p.store.Apply(func(w world.World) (world.World, error) {
		staged := w.
			With(world.KeyStep, def.Pattern).
			With(world.KeyStepLocation, def.Location.String())

		next, bodyErr := invoke(def.Body, staged, args)
		if bodyErr != nil {
			p.log.Debug("step body failed, deferring until after-step hooks ran",
				"pattern", def.Pattern, "error", bodyErr.Error())
			return staged.With(world.KeyErr, bodyErr), nil
		}
		return next, nil
	})
	if err != nil {
		// Apply itself never fails here; the transform swallows body errors.
		return err
	}

	for _, hook := range after {
		next, hookErr := p.applyStepHook(hook)
		if hookErr != nil {
			return jberrors.NewHookError("after-step", hookErr)
		}
		current = next
	}

	if captured := current.Err(); captured != nil {
		return jberrors.NewStepError(def.Pattern, def.Location.File, def.Location.Line, captured)
	}
	return nil
}

func (p *Pipeline) applyStepHook(hook glue.StepHookFunc) (world.World, error) {
	return p.store.Apply(func(w world.World) (world.World, error) {
		return hook(w)
	})
}

// invoke calls the step body, converting a panic into an error so the
// after-step hooks still run.
func invoke(body glue.StepFunc, w world.World, args []any) (next world.World, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = nil, fmt.Errorf("step panicked: %v", r)
		}
	}()
	return body(w, args...)
}
