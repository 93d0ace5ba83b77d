package mock

import (
	"context"

	"github.com/fwojciec/fontdl"
)

var _ fontdl.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of fontdl.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}

var _ fontdl.SeenSet = (*SeenSet)(nil)

// SeenSet is a mock implementation of fontdl.SeenSet.
type SeenSet struct {
	AddFn  func(id string)
	TestFn func(id string) bool
}

func (s *SeenSet) Add(id string) {
	s.AddFn(id)
}

func (s *SeenSet) Test(id string) bool {
	return s.TestFn(id)
}
