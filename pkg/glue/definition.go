// Package glue holds step and hook definitions and the registry that
// buffers them until a test-execution engine is available.
package glue

import (
	"fmt"
	"runtime"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"github.com/hiram-madelaine/jukebox/pkg/world"
)

// StepFunc is a step body. It receives the current world, augmented with
// step metadata, plus the arguments matched from the step pattern, and
// returns the replacement world.
type StepFunc func(w world.World, args ...any) (world.World, error)

// HookFunc is a before/after-scenario hook body. It receives the current
// world and a snapshot of the scenario's metadata.
type HookFunc func(w world.World, meta ScenarioMeta) (world.World, error)

// StepHookFunc is a before/after-step hook body, run around every step
// regardless of tags.
type StepHookFunc func(w world.World) (world.World, error)

// Location is the source position where a definition was registered.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// callerLocation reports the file and line skip frames above the caller.
func callerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}
	}
	return Location{File: file, Line: line}
}

// StepDefinition binds a step-matching pattern to a body. Immutable once
// constructed.
type StepDefinition struct {
	Pattern  string
	Body     StepFunc
	Location Location
}

// HookDefinition binds a scenario hook body to a tag filter. The filter is
// compiled at registration time; an empty expression matches every
// scenario.
type HookDefinition struct {
	TagExpr string
	Body    HookFunc

	matcher tagexpressions.Evaluatable
}

func newHookDefinition(tagExpr string, body HookFunc) (HookDefinition, error) {
	def := HookDefinition{TagExpr: tagExpr, Body: body}
	if tagExpr == "" {
		return def, nil
	}
	matcher, err := compileTagExpr(tagExpr)
	if err != nil {
		return HookDefinition{}, err
	}
	def.matcher = matcher
	return def, nil
}

// compileTagExpr parses a tag expression, converting the parser's panics
// on malformed input (e.g. a dangling "and") into errors.
func compileTagExpr(tagExpr string) (matcher tagexpressions.Evaluatable, err error) {
	defer func() {
		if r := recover(); r != nil {
			matcher = nil
			err = fmt.Errorf("invalid tag expression %q: %v", tagExpr, r)
		}
	}()

	matcher, err = tagexpressions.Parse(tagExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid tag expression %q: %w", tagExpr, err)
	}
	return matcher, nil
}

// Matches evaluates the compiled tag filter against a scenario's tag set.
func (h HookDefinition) Matches(tags []string) bool {
	if h.matcher == nil {
		return true
	}
	return h.matcher.Evaluate(tags)
}

// ScenarioMeta is the scenario metadata snapshot handed to scenario hooks.
// Failed and Err are only meaningful in after-scenario hooks. Line is zero
// when the engine does not report one.
type ScenarioMeta struct {
	ID     string
	Name   string
	URI    string
	Line   int
	Tags   []string
	Failed bool
	Err    error
}

// Engine is the glue-registration sink supplied by the external
// test-execution engine. Forwarded definitions are dispatched by the
// engine; step hooks never pass through it.
type Engine interface {
	AttachStep(StepDefinition)
	AttachBeforeScenarioHook(HookDefinition)
	AttachAfterScenarioHook(HookDefinition)
}
