package errors

import (
	"errors"
	"fmt"
)

// ErrPending marks a step body that has been generated but not implemented.
// Generated skeletons return it so the suite reports the step instead of
// silently passing.
var ErrPending = errors.New("step implementation pending")

// StepError represents a failure raised by a step body. It carries the
// registered pattern and source location for diagnostics and wraps the
// original failure.
type StepError struct {
	Pattern string
	File    string
	Line    int
	Err     error
}

// NewStepError constructs a StepError.
func NewStepError(pattern, file string, line int, err error) error {
	return &StepError{Pattern: pattern, File: file, Line: line, Err: err}
}

func (e *StepError) Error() string {
	if e == nil {
		return ""
	}
	if e.File != "" {
		return fmt.Sprintf("step %q failed (%s:%d): %v", e.Pattern, e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("step %q failed: %v", e.Pattern, e.Err)
}

// Unwrap exposes the original step failure.
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HookError represents a failure raised by a hook body. Phase names which
// hook sequence failed: before-step, after-step, before-scenario or
// after-scenario.
type HookError struct {
	Phase string
	Err   error
}

// NewHookError constructs a HookError for the given phase.
func NewHookError(phase string, err error) error {
	return &HookError{Phase: phase, Err: err}
}

func (e *HookError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s hook failed: %v", e.Phase, e.Err)
}

// Unwrap exposes the original hook failure.
func (e *HookError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a failure reading or decoding a suite options file.
type ParseError struct {
	Path string
	Err  error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, err error) error {
	return &ParseError{Path: path, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("parse error: %s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
