package services

import (
	"context"
	"sync"
)

// Settlement reports the outcome of a backend call issued after an
// optimistic update.
type Settlement struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newSettlement() *Settlement {
	return &Settlement{done: make(chan struct{})}
}

// settled returns a Settlement that is already complete.
func settled(err error) *Settlement {
	s := newSettlement()
	s.finish(err)
	return s
}

func (s *Settlement) finish(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done is closed once the backend call has settled.
func (s *Settlement) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the call settles and returns its error.
func (s *Settlement) Wait() error {
	<-s.done
	return s.err
}

// OptimisticUpdate is the snapshot, apply, settle protocol. Snapshot captures
// the prior state, Apply installs the new state, Commit talks to the backend.
// Restore receives the snapshot when Commit fails. Snapshot may be nil when
// Apply records the prior state itself.
type OptimisticUpdate[S any] struct {
	Snapshot func() S
	Apply    func()
	Commit   func(ctx context.Context) error
	Restore  func(prior S)
	// OnSettle runs after Restore (on failure) with the commit result.
	OnSettle func(err error)
}

// Run applies the update locally and commits it in the background.
func (u OptimisticUpdate[S]) Run(ctx context.Context) *Settlement {
	var prior S
	if u.Snapshot != nil {
		prior = u.Snapshot()
	}
	u.Apply()

	s := newSettlement()
	go func() {
		err := u.Commit(ctx)
		if err != nil && u.Restore != nil {
			u.Restore(prior)
		}
		if u.OnSettle != nil {
			u.OnSettle(err)
		}
		s.finish(err)
	}()
	return s
}
