package glue

// Default is the process-wide registry that package-level registration
// functions operate on. Glue source files typically register against it
// from init functions, before any engine exists.
var Default = NewRegistry(nil)

// Step registers a step on the default registry.
func Step(pattern string, body StepFunc) {
	Default.addStep(StepDefinition{Pattern: pattern, Body: body, Location: callerLocation(1)})
}

// BeforeScenario registers a before-scenario hook on the default registry.
// Panics when the tag expression does not compile; registration happens at
// package-load time, where a bad expression is a programming error.
func BeforeScenario(tagExpr string, body HookFunc) {
	if err := Default.RegisterBeforeScenarioHook(tagExpr, body); err != nil {
		panic(err)
	}
}

// AfterScenario registers an after-scenario hook on the default registry.
// Panics when the tag expression does not compile.
func AfterScenario(tagExpr string, body HookFunc) {
	if err := Default.RegisterAfterScenarioHook(tagExpr, body); err != nil {
		panic(err)
	}
}

// BeforeStep registers a before-step hook on the default registry.
func BeforeStep(hook StepHookFunc) {
	Default.RegisterBeforeStepHook(hook)
}

// AfterStep registers an after-step hook on the default registry.
func AfterStep(hook StepHookFunc) {
	Default.RegisterAfterStepHook(hook)
}

// ResetDefault replaces the default registry with a fresh unbound one (for
// tests).
func ResetDefault() {
	Default = NewRegistry(nil)
}
