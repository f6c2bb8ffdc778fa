package glue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiram-madelaine/jukebox/pkg/world"
)

// recorderEngine records forwarded definitions in arrival order.
type recorderEngine struct {
	steps  []StepDefinition
	before []HookDefinition
	after  []HookDefinition
	order  []string
}

func (e *recorderEngine) AttachStep(def StepDefinition) {
	e.steps = append(e.steps, def)
	e.order = append(e.order, "step:"+def.Pattern)
}

func (e *recorderEngine) AttachBeforeScenarioHook(def HookDefinition) {
	e.before = append(e.before, def)
	e.order = append(e.order, "before:"+def.TagExpr)
}

func (e *recorderEngine) AttachAfterScenarioHook(def HookDefinition) {
	e.after = append(e.after, def)
	e.order = append(e.order, "after:"+def.TagExpr)
}

func noopStep(w world.World, _ ...any) (world.World, error) { return w, nil }

func noopHook(w world.World, _ ScenarioMeta) (world.World, error) { return w, nil }

func TestRegistryBuffersUntilBindThenFlushesInOrder(t *testing.T) {
	reg := NewRegistry(nil)

	reg.RegisterStep("first", noopStep)
	reg.RegisterStep("second", noopStep)
	require.NoError(t, reg.RegisterBeforeScenarioHook("@smoke", noopHook))
	require.NoError(t, reg.RegisterAfterScenarioHook("@cleanup", noopHook))

	engine := &recorderEngine{}
	require.Empty(t, engine.order)

	reg.Bind(engine)

	require.Equal(t, []string{
		"step:first",
		"step:second",
		"before:@smoke",
		"after:@cleanup",
	}, engine.order)
}

func TestRegistryForwardsImmediatelyOnceBound(t *testing.T) {
	reg := NewRegistry(nil)
	engine := &recorderEngine{}
	reg.Bind(engine)

	reg.RegisterStep("live", noopStep)
	require.Equal(t, []string{"step:live"}, engine.order)

	require.NoError(t, reg.RegisterBeforeScenarioHook("", noopHook))
	require.Len(t, engine.before, 1)
}

func TestRegistryDuplicateStepsForwardedTwice(t *testing.T) {
	reg := NewRegistry(nil)
	reg.RegisterStep("I have {int} cukes", noopStep)
	reg.RegisterStep("I have {int} cukes", noopStep)

	engine := &recorderEngine{}
	reg.Bind(engine)

	require.Len(t, engine.steps, 2)
	require.Equal(t, engine.steps[0].Pattern, engine.steps[1].Pattern)
}

func TestRegistryRebindReplacesEngineWithoutReplay(t *testing.T) {
	reg := NewRegistry(nil)
	reg.RegisterStep("buffered", noopStep)

	first := &recorderEngine{}
	reg.Bind(first)
	require.Equal(t, []string{"step:buffered"}, first.order)

	second := &recorderEngine{}
	reg.Bind(second)
	require.Empty(t, second.order, "rebinding must not replay drained buffers")

	reg.RegisterStep("post-rebind", noopStep)
	require.Equal(t, []string{"step:buffered"}, first.order)
	require.Equal(t, []string{"step:post-rebind"}, second.order)
}

func TestStepHooksAreNeverBufferedAndSurviveRebind(t *testing.T) {
	reg := NewRegistry(nil)
	reg.RegisterBeforeStepHook(func(w world.World) (world.World, error) { return w, nil })
	reg.RegisterAfterStepHook(func(w world.World) (world.World, error) { return w, nil })
	reg.RegisterAfterStepHook(func(w world.World) (world.World, error) { return w, nil })

	before, after := reg.StepHooks()
	require.Len(t, before, 1)
	require.Len(t, after, 2)

	engine := &recorderEngine{}
	reg.Bind(engine)
	reg.Bind(&recorderEngine{})

	before, after = reg.StepHooks()
	require.Len(t, before, 1)
	require.Len(t, after, 2)
	require.Empty(t, engine.steps, "step hooks never pass through the engine")
}

func TestStepHooksReturnsCopies(t *testing.T) {
	reg := NewRegistry(nil)
	reg.RegisterBeforeStepHook(func(w world.World) (world.World, error) { return w, nil })

	before, _ := reg.StepHooks()
	before[0] = nil

	fresh, _ := reg.StepHooks()
	require.NotNil(t, fresh[0])
}

func TestHookTagFilterMatching(t *testing.T) {
	def, err := newHookDefinition("@a and not @b", noopHook)
	require.NoError(t, err)

	require.True(t, def.Matches([]string{"@a"}))
	require.False(t, def.Matches([]string{"@a", "@b"}))
	require.False(t, def.Matches(nil))
}

func TestEmptyTagFilterMatchesEverything(t *testing.T) {
	def, err := newHookDefinition("", noopHook)
	require.NoError(t, err)

	require.True(t, def.Matches(nil))
	require.True(t, def.Matches([]string{"@anything"}))
}

func TestInvalidTagExpressionIsRejected(t *testing.T) {
	// The underlying parser panics on some malformed inputs; registration
	// must report every variant as a plain error.
	for _, expr := range []string{"@a and", "and @a", "(@a", "@a)", "not"} {
		t.Run(expr, func(t *testing.T) {
			reg := NewRegistry(nil)

			var err error
			require.NotPanics(t, func() {
				err = reg.RegisterBeforeScenarioHook(expr, noopHook)
			})
			require.Error(t, err)
			require.Contains(t, err.Error(), "tag expression")

			require.NotPanics(t, func() {
				err = reg.RegisterAfterScenarioHook(expr, noopHook)
			})
			require.Error(t, err)

			// Nothing buffered for the failed registrations.
			engine := &recorderEngine{}
			reg.Bind(engine)
			require.Empty(t, engine.before)
			require.Empty(t, engine.after)
		})
	}
}

func TestRegisterStepCapturesCallerLocation(t *testing.T) {
	reg := NewRegistry(nil)
	reg.RegisterStep("located", noopStep)

	engine := &recorderEngine{}
	reg.Bind(engine)

	require.Len(t, engine.steps, 1)
	loc := engine.steps[0].Location
	require.True(t, strings.HasSuffix(loc.File, "registry_test.go"), "got %q", loc.File)
	require.Greater(t, loc.Line, 0)
}

func TestDefaultRegistryConvenienceFunctions(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	Step("via default", noopStep)
	BeforeScenario("@tagged", noopHook)
	AfterScenario("", noopHook)
	BeforeStep(func(w world.World) (world.World, error) { return w, nil })
	AfterStep(func(w world.World) (world.World, error) { return w, nil })

	engine := &recorderEngine{}
	Default.Bind(engine)

	require.Equal(t, []string{"step:via default", "before:@tagged", "after:"}, engine.order)
	require.True(t, strings.HasSuffix(engine.steps[0].Location.File, "registry_test.go"))

	before, after := Default.StepHooks()
	require.Len(t, before, 1)
	require.Len(t, after, 1)
}

func TestBeforeScenarioPanicsOnBadExpression(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	require.Panics(t, func() {
		BeforeScenario("@a and", noopHook)
	})
}
