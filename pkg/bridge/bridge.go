// Package bridge adapts the registry/pipeline model onto godog, the
// external test-execution engine. It forwards definitions into godog's
// scenario contexts, manages the world lifecycle around scenarios and
// renders skeletons for unmatched steps.
package bridge

import (
	"context"
	"reflect"
	"regexp"

	"github.com/cucumber/godog"

	"github.com/hiram-madelaine/jukebox/internal/logger"
	"github.com/hiram-madelaine/jukebox/internal/snippet"
	jberrors "github.com/hiram-madelaine/jukebox/pkg/errors"
	"github.com/hiram-madelaine/jukebox/pkg/glue"
	"github.com/hiram-madelaine/jukebox/pkg/pipeline"
	"github.com/hiram-madelaine/jukebox/pkg/world"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// boundStep is a step definition with its pattern already translated, so
// the translation happens once per definition, not once per scenario.
type boundStep struct {
	def   glue.StepDefinition
	expr  string
	kinds []paramKind
}

// Bridge implements glue.Engine against godog. The engine supplies a
// fresh *godog.ScenarioContext for every scenario, so the bridge retains
// each definition it has been handed and replays the whole set into every
// new context; the registry's buffers are drained into the bridge exactly
// once. The engine invokes the bridge from a single goroutine.
type Bridge struct {
	reg   *glue.Registry
	store *world.Store
	pipe  *pipeline.Pipeline
	log   *logger.Logger

	sc     *godog.ScenarioContext
	bound  bool
	steps  []boundStep
	before []glue.HookDefinition
	after  []glue.HookDefinition
}

// New returns a bridge for one suite run. The logger may be nil.
func New(reg *glue.Registry, store *world.Store, log *logger.Logger) *Bridge {
	return &Bridge{
		reg:   reg,
		store: store,
		pipe:  pipeline.New(store, reg, log),
		log:   log,
	}
}

// Attach wires the bridge onto one scenario's context. The world
// lifecycle hooks are installed first (so the world is fresh before any
// user hook sees it), then the definitions: the first call binds the
// registry, which flushes every buffered definition through the bridge;
// later calls replay the retained definitions into the new context.
func (b *Bridge) Attach(sc *godog.ScenarioContext) {
	b.sc = sc

	// buildWorld: fresh world before each scenario. godog runs Before
	// hooks in registration order, so this one fires first.
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		b.store.Reset()
		return ctx, nil
	})
	// disposeWorld: godog runs After hooks in reverse registration order,
	// so this one fires last, after every user after-scenario hook.
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		b.store.Reset()
		return ctx, nil
	})

	if !b.bound {
		b.bound = true
		b.reg.Bind(b)
		return
	}

	for _, step := range b.steps {
		b.forwardStep(step)
	}
	for _, def := range b.before {
		b.forwardBeforeScenarioHook(def)
	}
	for _, def := range b.after {
		b.forwardAfterScenarioHook(def)
	}
}

// AttachStep exposes a step definition to the engine. The handler
// signature is derived from the pattern's parameters so the engine
// converts matched arguments to the right Go types before the pipeline
// sees them.
func (b *Bridge) AttachStep(def glue.StepDefinition) {
	expr, kinds, err := translatePattern(def.Pattern)
	if err != nil {
		b.log.Error(err, "step pattern does not compile, definition dropped",
			"pattern", def.Pattern, "location", def.Location.String())
		return
	}
	step := boundStep{def: def, expr: expr, kinds: kinds}
	b.steps = append(b.steps, step)
	b.forwardStep(step)
}

func (b *Bridge) forwardStep(step boundStep) {
	b.sc.Step(step.expr, b.stepHandler(step.def, step.kinds))
}

func (b *Bridge) stepHandler(def glue.StepDefinition, kinds []paramKind) any {
	in := make([]reflect.Type, len(kinds))
	for i, kind := range kinds {
		in[i] = kind.goType()
	}
	fnType := reflect.FuncOf(in, []reflect.Type{errType}, false)

	fn := reflect.MakeFunc(fnType, func(vals []reflect.Value) []reflect.Value {
		args := make([]any, len(vals))
		for i, v := range vals {
			args[i] = v.Interface()
		}

		ret := reflect.New(errType).Elem()
		if err := b.pipe.Run(def, args); err != nil {
			ret.Set(reflect.ValueOf(err))
		}
		return []reflect.Value{ret}
	})
	return fn.Interface()
}

// AttachBeforeScenarioHook exposes a before-scenario hook to the engine.
func (b *Bridge) AttachBeforeScenarioHook(def glue.HookDefinition) {
	b.before = append(b.before, def)
	b.forwardBeforeScenarioHook(def)
}

func (b *Bridge) forwardBeforeScenarioHook(def glue.HookDefinition) {
	b.sc.Before(func(ctx context.Context, sn *godog.Scenario) (context.Context, error) {
		meta := metaFromScenario(sn, nil)
		if !def.Matches(meta.Tags) {
			return ctx, nil
		}
		if _, err := b.applyHook(def, meta); err != nil {
			return ctx, jberrors.NewHookError("before-scenario", err)
		}
		return ctx, nil
	})
}

// AttachAfterScenarioHook exposes an after-scenario hook to the engine.
func (b *Bridge) AttachAfterScenarioHook(def glue.HookDefinition) {
	b.after = append(b.after, def)
	b.forwardAfterScenarioHook(def)
}

func (b *Bridge) forwardAfterScenarioHook(def glue.HookDefinition) {
	b.sc.After(func(ctx context.Context, sn *godog.Scenario, scErr error) (context.Context, error) {
		meta := metaFromScenario(sn, scErr)
		if !def.Matches(meta.Tags) {
			return ctx, nil
		}
		if _, err := b.applyHook(def, meta); err != nil {
			return ctx, jberrors.NewHookError("after-scenario", err)
		}
		return ctx, nil
	})
}

func (b *Bridge) applyHook(def glue.HookDefinition, meta glue.ScenarioMeta) (world.World, error) {
	return b.store.Apply(func(w world.World) (world.World, error) {
		return def.Body(w, meta)
	})
}

// metaFromScenario snapshots the scenario metadata the engine supplies at
// hook-invocation time. The engine's pickle carries no line number; Line
// stays zero.
func metaFromScenario(sn *godog.Scenario, scErr error) glue.ScenarioMeta {
	tags := make([]string, 0, len(sn.Tags))
	for _, tag := range sn.Tags {
		tags = append(tags, tag.Name)
	}
	return glue.ScenarioMeta{
		ID:     sn.Id,
		Name:   sn.Name,
		URI:    sn.Uri,
		Tags:   tags,
		Failed: scErr != nil,
		Err:    scErr,
	}
}

// Snippet produces a Go skeleton for a step text that matched no
// registered definition. Keyword localization is the engine's concern; the
// keyword arrives already translated.
func Snippet(stepText, keyword string) string {
	out, err := snippet.Render(snippet.Data{
		Keyword: keyword,
		Pattern: "^" + regexp.QuoteMeta(stepText) + "$",
	})
	if err != nil {
		return ""
	}
	return out
}
