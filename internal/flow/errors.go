package flow

import (
	"fmt"
	"strings"
)

// WiringError reports an invalid graph definition: an edge or router
// successor referencing an undeclared stage, a missing entry point, or a
// node with conflicting edges. It is raised at build time, never at run
// time.
type WiringError struct {
	Stage  string
	Reason string
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("graph wiring: stage %q: %s", e.Stage, e.Reason)
}

// CycleError reports that one stage was revisited more often than the
// configured bound within a single session. It indicates a context or
// router defect, and carries the stage-visit trail for diagnosis.
type CycleError struct {
	Stage string
	Limit int
	Trail []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle limit exceeded: stage %q visited more than %d times (trail: %s)",
		e.Stage, e.Limit, strings.Join(e.Trail, " -> "))
}

// Suspension signals that a stage needs input that is not yet in the
// context. The orchestrator stops and returns it; the caller persists the
// partial context and re-invokes the graph from Stage once the answer is
// available. It works identically for an interactive loop and a stateless
// request-per-stage service.
type Suspension struct {
	// Stage is filled in by the orchestrator.
	Stage string
	// Field names the awaited context slot or preference key.
	Field string
	// Question is the user-facing prompt for the missing value.
	Question string
}

func (s *Suspension) Error() string {
	return fmt.Sprintf("awaiting input for %q at stage %q", s.Field, s.Stage)
}

// Suspend creates a Suspension for the given field and prompt.
func Suspend(field, question string) *Suspension {
	return &Suspension{Field: field, Question: question}
}
