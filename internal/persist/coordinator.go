// Package persist records submissions through an ordered chain of storage
// tiers, falling back to the log when every tier fails.
package persist

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/store"
)

// Tier is one backend in the fallback chain together with the role it
// reports when it absorbs a write.
type Tier struct {
	Role   model.Tier
	Writer store.Writer
}

// Observer receives every result Submit returns.
type Observer interface {
	Observe(res model.SubmitResult)
}

// Coordinator tries each tier in order and stops at the first success.
type Coordinator struct {
	tiers    []Tier
	observer Observer
	now      func() time.Time
}

// NewCoordinator creates a Coordinator. Tiers are tried in the order given;
// an empty list sends every submission straight to the log.
func NewCoordinator(tiers ...Tier) *Coordinator {
	return &Coordinator{tiers: tiers, now: time.Now}
}

// WithObserver reports every submission outcome to o.
func (c *Coordinator) WithObserver(o Observer) *Coordinator {
	c.observer = o
	return c
}

// Tiers returns the configured chain.
func (c *Coordinator) Tiers() []Tier {
	return c.tiers
}

// Submit never reports failure to the caller. When no tier accepts the
// submission it is logged in full at error level and the result carries
// TierLogOnly plus the last backend error.
func (c *Coordinator) Submit(ctx context.Context, sub model.Submission) model.SubmitResult {
	res := c.submit(ctx, sub)
	if c.observer != nil {
		c.observer.Observe(res)
	}
	return res
}

func (c *Coordinator) submit(ctx context.Context, sub model.Submission) model.SubmitResult {
	if sub.Timestamp.IsZero() {
		sub.Timestamp = c.now()
	}

	res := model.SubmitResult{Accepted: true}
	for _, t := range c.tiers {
		id, err := t.Writer.Write(ctx, sub)
		if err == nil {
			res.Tier = t.Role
			res.ID = idOrTimestamp(id, sub.Timestamp)
			res.Attempts = append(res.Attempts, model.TierOutcome{Tier: t.Role, Backend: t.Writer.Name()})
			if res.LastError != nil {
				zap.L().Info("persist: submission stored after fallback",
					zap.String("tier", string(t.Role)),
					zap.String("backend", t.Writer.Name()),
				)
			}
			return res
		}

		err = eris.Wrapf(err, "persist: %s tier (%s)", t.Role, t.Writer.Name())
		zap.L().Warn("persist: tier write failed, trying next",
			zap.String("tier", string(t.Role)),
			zap.String("backend", t.Writer.Name()),
			zap.Error(err),
		)
		res.Attempts = append(res.Attempts, model.TierOutcome{
			Tier:    t.Role,
			Backend: t.Writer.Name(),
			Err:     err.Error(),
		})
		res.LastError = err
	}

	res.Tier = model.TierLogOnly
	res.ID = idOrTimestamp("", sub.Timestamp)
	zap.L().Error("persist: all tiers failed, submission recorded in log only",
		zap.String("id", res.ID),
		zap.Time("timestamp", sub.Timestamp),
		zap.String("name", sub.Name),
		zap.String("phone", sub.Phone),
		zap.String("clinic_name", sub.ClinicName),
		zap.String("email", sub.Email),
		zap.String("recommended_solution", sub.RecommendedSolution),
		zap.Any("answers", sub.Answers),
		zap.Bool("has_inquiry", sub.HasInquiry),
		zap.Error(res.LastError),
	)
	return res
}

func idOrTimestamp(id string, ts time.Time) string {
	if id != "" {
		return id
	}
	return strconv.FormatInt(ts.UnixMilli(), 10)
}
