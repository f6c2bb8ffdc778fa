package glue

import (
	"sync"

	"github.com/hiram-madelaine/jukebox/internal/logger"
)

// registryState is the registry's one-way state machine: unbound (no
// engine yet, registrations buffered) or bound (registrations forwarded
// immediately). The transition happens exactly once, in Bind.
type registryState interface {
	isRegistryState()
}

// unbound buffers definitions in registration order until an engine shows
// up.
type unbound struct {
	steps  []StepDefinition
	before []HookDefinition
	after  []HookDefinition
}

func (*unbound) isRegistryState() {}

// bound forwards every registration straight to the engine.
type bound struct {
	engine Engine
}

func (*bound) isRegistryState() {}

// Registry holds the registered steps and hooks for a test suite. Glue
// sources register against it from init functions, typically long before
// the engine exists; Bind later drains the buffers into the engine.
//
// Step hooks are stored directly and never buffered: they are invoked by
// the execution pipeline, not dispatched through the engine.
type Registry struct {
	mu    sync.Mutex
	log   *logger.Logger
	state registryState

	beforeStep []StepHookFunc
	afterStep  []StepHookFunc
}

// NewRegistry returns an unbound registry. The logger may be nil.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log, state: &unbound{}}
}

// RegisterStep registers a step body for a pattern. Duplicate patterns are
// not deduplicated; each registration produces its own forwarded
// definition.
func (r *Registry) RegisterStep(pattern string, body StepFunc) {
	r.addStep(StepDefinition{Pattern: pattern, Body: body, Location: callerLocation(1)})
}

func (r *Registry) addStep(def StepDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch st := r.state.(type) {
	case *unbound:
		st.steps = append(st.steps, def)
	case *bound:
		st.engine.AttachStep(def)
	}
	r.log.Debug("step registered", "pattern", def.Pattern, "location", def.Location.String())
}

// RegisterBeforeScenarioHook registers a hook run before every scenario
// whose tags satisfy tagExpr. An empty expression matches every scenario.
// Returns an error when the tag expression does not compile.
func (r *Registry) RegisterBeforeScenarioHook(tagExpr string, body HookFunc) error {
	def, err := newHookDefinition(tagExpr, body)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch st := r.state.(type) {
	case *unbound:
		st.before = append(st.before, def)
	case *bound:
		st.engine.AttachBeforeScenarioHook(def)
	}
	return nil
}

// RegisterAfterScenarioHook registers a hook run after every scenario
// whose tags satisfy tagExpr. Same bind-or-buffer policy as before-hooks.
func (r *Registry) RegisterAfterScenarioHook(tagExpr string, body HookFunc) error {
	def, err := newHookDefinition(tagExpr, body)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch st := r.state.(type) {
	case *unbound:
		st.after = append(st.after, def)
	case *bound:
		st.engine.AttachAfterScenarioHook(def)
	}
	return nil
}

// RegisterBeforeStepHook appends a hook run before every step.
func (r *Registry) RegisterBeforeStepHook(hook StepHookFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeStep = append(r.beforeStep, hook)
}

// RegisterAfterStepHook appends a hook run after every step.
func (r *Registry) RegisterAfterStepHook(hook StepHookFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterStep = append(r.afterStep, hook)
}

// StepHooks returns copies of the before-step and after-step hook
// sequences in registration order.
func (r *Registry) StepHooks() (before, after []StepHookFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before = make([]StepHookFunc, len(r.beforeStep))
	copy(before, r.beforeStep)
	after = make([]StepHookFunc, len(r.afterStep))
	copy(after, r.afterStep)
	return before, after
}

// Bind attaches the engine. On the first call every buffered step and
// scenario hook is forwarded in original registration order and the
// registry transitions irreversibly to bound mode. A later call silently
// replaces the engine reference; nothing is replayed because the buffers
// were already drained. Step hooks, being unbuffered, survive rebinding
// unchanged.
func (r *Registry) Bind(engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch st := r.state.(type) {
	case *unbound:
		r.state = &bound{engine: engine}
		for _, def := range st.steps {
			engine.AttachStep(def)
		}
		for _, def := range st.before {
			engine.AttachBeforeScenarioHook(def)
		}
		for _, def := range st.after {
			engine.AttachAfterScenarioHook(def)
		}
		r.log.Debug("registry bound, buffered definitions flushed",
			"steps", len(st.steps),
			"before_hooks", len(st.before),
			"after_hooks", len(st.after))
	case *bound:
		st.engine = engine
		r.log.Debug("registry rebound, engine reference replaced")
	}
}
