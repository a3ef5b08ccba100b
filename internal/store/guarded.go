package store

import (
	"context"

	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/resilience"
)

// Guarded wraps a Writer with transient-error retries and a circuit
// breaker. While the breaker is open writes fail immediately with
// resilience.ErrCircuitOpen.
type Guarded struct {
	w       Writer
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewGuarded wraps w. A nil breaker disables circuit breaking.
func NewGuarded(w Writer, breaker *resilience.CircuitBreaker, retry resilience.RetryConfig) *Guarded {
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger(w.Name())
	}
	return &Guarded{w: w, breaker: breaker, retry: retry}
}

func (g *Guarded) Name() string { return g.w.Name() }

func (g *Guarded) Write(ctx context.Context, sub model.Submission) (string, error) {
	var id string
	attempt := func(ctx context.Context) error {
		return resilience.Do(ctx, g.retry, func(ctx context.Context) error {
			var err error
			id, err = g.w.Write(ctx, sub)
			return err
		})
	}

	var err error
	if g.breaker == nil {
		err = attempt(ctx)
	} else {
		err = g.breaker.Execute(ctx, attempt)
	}
	return id, err
}
