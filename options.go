package keel

import "fmt"

// Option configures store construction.
type Option[S any] func(*config[S])

// config is the resolved construction configuration.
type config[S any] struct {
	initial    S
	hasInitial bool

	enhancer      Enhancer[S]
	enhancerCount int
}

// WithInitialState seeds the store with an initial state instead of the zero
// value of S.
func WithInitialState[S any](initial S) Option[S] {
	return func(c *config[S]) {
		c.initial = initial
		c.hasInitial = true
	}
}

// WithEnhancer hands construction over to e. At most one enhancer may be
// supplied; compose enhancers with Compose first if several are needed.
func WithEnhancer[S any](e Enhancer[S]) Option[S] {
	return func(c *config[S]) {
		c.enhancer = e
		c.enhancerCount++
	}
}

// newConfig applies the options and validates the enhancer arity.
func newConfig[S any](opts []Option[S]) (*config[S], error) {
	cfg := &config[S]{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.enhancerCount > 1 {
		return nil, fmt.Errorf("%w: more than one enhancer supplied", ErrInvalidArgument)
	}
	if cfg.enhancerCount == 1 && cfg.enhancer == nil {
		return nil, fmt.Errorf("%w: enhancer must not be nil", ErrInvalidArgument)
	}
	return cfg, nil
}

// innerOptions rebuilds the option list handed to the creator an enhancer
// wraps: everything except the enhancer itself.
func (c *config[S]) innerOptions() []Option[S] {
	if !c.hasInitial {
		return nil
	}
	return []Option[S]{WithInitialState(c.initial)}
}
