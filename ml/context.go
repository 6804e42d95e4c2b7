package ml

import (
	"math/rand"
	"runtime"
)

// Context carries the execution state for tensor operations: the
// training/inference mode, the RNG used by stochastic ops and the number of
// workers the backend may use for batch-parallel operations. A Context is a
// small value and is threaded through every op; there is no global mode
// state.
type Context struct {
	training bool
	rng      *rand.Rand
	workers  int
}

type ContextOption func(*Context)

// WithTraining enables training mode. Stochastic ops (dropout) are active
// only in training mode and draw from an RNG seeded with seed, so training
// runs are reproducible.
func WithTraining(seed int64) ContextOption {
	return func(c *Context) {
		c.training = true
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWorkers caps the number of goroutines used for batch-parallel ops.
func WithWorkers(n int) ContextOption {
	return func(c *Context) {
		if n > 0 {
			c.workers = n
		}
	}
}

func NewContext(opts ...ContextOption) Context {
	c := Context{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Context) Training() bool { return c.training }

func (c Context) Workers() int { return c.workers }

// Rand returns the context RNG. It is only valid in training mode.
func (c Context) Rand() *rand.Rand {
	if c.rng == nil {
		panic("ml: context has no RNG; use WithTraining")
	}
	return c.rng
}
