package sink

import (
	"context"
	"errors"
	"fmt"

	"stocksentix/internal/domain"
)

type Persister interface {
	Persist(ctx context.Context, run domain.RunRecord) error
}

type named struct {
	name string
	p    Persister
}

// Multi writes each run to every registered sink, in order, and joins the
// failures. One failing sink does not stop the others.
type Multi struct {
	sinks []named
}

func NewMulti() *Multi { return &Multi{} }

func (m *Multi) Add(name string, p Persister) *Multi {
	if p != nil {
		m.sinks = append(m.sinks, named{name: name, p: p})
	}
	return m
}

func (m *Multi) Len() int { return len(m.sinks) }

func (m *Multi) Persist(ctx context.Context, run domain.RunRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.p.Persist(ctx, run); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
