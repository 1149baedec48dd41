// Package navigation decides where a wizard goes after a step is submitted
// and where its back link points.
//
// Every wizard declares a Flow: a fixed graph of steps whose successor and
// predecessor may depend on the journey (mode, optional sections). Once a
// journey is checking answers, successors collapse to the check-answers step
// unless the step is part of a detour that the user opened from there.
package navigation

import (
	"errors"
	"fmt"
	"strings"

	"contacts/internal/journey"
)

// StepID names a step within one flow.
type StepID string

// Return is the successor of the last step of a sub-flow. It resolves to the
// return point the payload recorded when the sub-flow was entered.
const Return StepID = "@return"

var (
	ErrUnknownFlow   = errors.New("no flow registered for journey kind")
	ErrUnknownStep   = errors.New("unknown step")
	ErrNoSuccessor   = errors.New("step has no successor")
	ErrNoReturnPoint = errors.New("sub-flow has no return point")
)

// Step is one page of a flow.
type Step struct {
	ID StepID
	// Slug is the path segment; defaults to ID.
	Slug string
	// Next returns the natural successor. Steps without one (check answers)
	// leave it nil.
	Next func(j *journey.Journey) StepID
	// Prev returns the natural predecessor; "" means the journey's own
	// return point.
	Prev func(j *journey.Journey) StepID
	// Detour marks steps reachable from check answers that continue to their
	// natural successor instead of collapsing back immediately.
	Detour bool
}

// To is a convenience for an unconditional successor or predecessor.
func To(id StepID) func(*journey.Journey) StepID {
	return func(*journey.Journey) StepID { return id }
}

func (s Step) slug() string {
	if s.Slug != "" {
		return s.Slug
	}
	return string(s.ID)
}

// Flow is the step graph of one wizard kind.
type Flow struct {
	Kind journey.Kind
	// Base returns the path prefix for a journey, e.g.
	// "/prisoner/A1234BC/contacts/create".
	Base         func(j *journey.Journey) string
	First        func(j *journey.Journey) StepID
	CheckAnswers StepID
	Steps        []Step

	index map[StepID]int
}

func (f *Flow) build() error {
	f.index = make(map[StepID]int, len(f.Steps))
	for i, s := range f.Steps {
		if s.ID == "" || s.ID == Return {
			return fmt.Errorf("flow %s: invalid step id %q", f.Kind, s.ID)
		}
		if _, dup := f.index[s.ID]; dup {
			return fmt.Errorf("flow %s: duplicate step %q", f.Kind, s.ID)
		}
		f.index[s.ID] = i
	}
	if _, ok := f.index[f.CheckAnswers]; !ok {
		return fmt.Errorf("flow %s: check answers step %q: %w", f.Kind, f.CheckAnswers, ErrUnknownStep)
	}
	return nil
}

// Step looks up a step by id.
func (f *Flow) Step(id StepID) (Step, bool) {
	i, ok := f.index[id]
	if !ok {
		return Step{}, false
	}
	return f.Steps[i], true
}

// BySlug looks up a step by its path segment.
func (f *Flow) BySlug(slug string) (Step, bool) {
	for _, s := range f.Steps {
		if s.slug() == slug {
			return s, true
		}
	}
	return Step{}, false
}

// URL is the address of a step for a journey.
func (f *Flow) URL(j *journey.Journey, id StepID) string {
	s, ok := f.Step(id)
	if !ok {
		return ""
	}
	return strings.TrimRight(f.Base(j), "/") + "/" + s.slug() + "/" + j.ID
}

// StartURL is the address of the first step.
func (f *Flow) StartURL(j *journey.Journey) string {
	return f.URL(j, f.First(j))
}

// CheckAnswersURL is the address of the check-answers step.
func (f *Flow) CheckAnswersURL(j *journey.Journey) string {
	return f.URL(j, f.CheckAnswers)
}

// Resolver holds the flows of every wizard.
type Resolver struct {
	flows map[journey.Kind]*Flow
}

// NewResolver validates and registers flows.
func NewResolver(flows ...*Flow) (*Resolver, error) {
	r := &Resolver{flows: make(map[journey.Kind]*Flow, len(flows))}
	for _, f := range flows {
		if err := f.build(); err != nil {
			return nil, err
		}
		if _, dup := r.flows[f.Kind]; dup {
			return nil, fmt.Errorf("flow %s registered twice", f.Kind)
		}
		r.flows[f.Kind] = f
	}
	return r, nil
}

// Flow returns the flow for a kind.
func (r *Resolver) Flow(kind journey.Kind) (*Flow, error) {
	f, ok := r.flows[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownFlow)
	}
	return f, nil
}

func (r *Resolver) lookup(j *journey.Journey, id StepID) (*Flow, Step, error) {
	f, err := r.Flow(j.Kind)
	if err != nil {
		return nil, Step{}, err
	}
	s, ok := f.Step(id)
	if !ok {
		return nil, Step{}, fmt.Errorf("%s/%s: %w", j.Kind, id, ErrUnknownStep)
	}
	return f, s, nil
}

// Next returns the address to redirect to after step has been submitted.
//
// A sub-flow's last step returns to the payload's sub-flow return point
// regardless of the checking-answers flag. Otherwise, while checking answers,
// every step other than a detour step goes to check answers.
func (r *Resolver) Next(step StepID, j *journey.Journey) (string, error) {
	f, s, err := r.lookup(j, step)
	if err != nil {
		return "", err
	}
	if s.Next == nil {
		return "", fmt.Errorf("%s/%s: %w", j.Kind, step, ErrNoSuccessor)
	}
	natural := s.Next(j)
	if natural == Return {
		return subflowReturn(j)
	}
	if j.IsCheckingAnswers && step != f.CheckAnswers && !s.Detour {
		return f.CheckAnswersURL(j), nil
	}
	if _, ok := f.Step(natural); !ok {
		return "", fmt.Errorf("%s/%s successor %q: %w", j.Kind, step, natural, ErrUnknownStep)
	}
	return f.URL(j, natural), nil
}

// Back returns the back-link address for step.
//
// While checking answers it points at check answers, except inside a detour
// where it points at the previous detour step. The check-answers page itself
// links to its natural predecessor.
func (r *Resolver) Back(step StepID, j *journey.Journey) (string, error) {
	f, s, err := r.lookup(j, step)
	if err != nil {
		return "", err
	}
	var prev StepID
	if s.Prev != nil {
		prev = s.Prev(j)
	}

	if j.IsCheckingAnswers && step != f.CheckAnswers {
		if p, ok := f.Step(prev); ok && p.Detour {
			return f.URL(j, prev), nil
		}
		if prev == Return {
			return subflowReturn(j)
		}
		return f.CheckAnswersURL(j), nil
	}

	switch prev {
	case "":
		return j.ReturnPoint, nil
	case Return:
		return subflowReturn(j)
	}
	if _, ok := f.Step(prev); !ok {
		return "", fmt.Errorf("%s/%s predecessor %q: %w", j.Kind, step, prev, ErrUnknownStep)
	}
	return f.URL(j, prev), nil
}

func subflowReturn(j *journey.Journey) (string, error) {
	c, ok := j.Payload.(journey.SubflowCarrier)
	if !ok || c.SubflowReturn() == "" {
		return "", fmt.Errorf("journey %s/%s: %w", j.Kind, j.ID, ErrNoReturnPoint)
	}
	return c.SubflowReturn(), nil
}
