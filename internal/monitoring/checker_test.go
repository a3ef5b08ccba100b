package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/config"
	"github.com/sells-group/clinic-quiz/internal/model"
)

func TestChecker_RunStopsOnCancel(t *testing.T) {
	collector := NewCollector()
	alerter := NewAlerter(config.MonitoringConfig{FallbackRateThreshold: 0.2})
	checker := NewChecker(collector, alerter, config.MonitoringConfig{CheckIntervalSecs: 1})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Checker.Run did not stop after context cancellation")
	}
}

func TestChecker_DefaultInterval(t *testing.T) {
	collector := NewCollector()
	alerter := NewAlerter(config.MonitoringConfig{})

	// Zero interval should default to 5 minutes.
	checker := NewChecker(collector, alerter, config.MonitoringConfig{
		CheckIntervalSecs: 0,
	})
	assert.NotNil(t, checker)

	// Start and immediately cancel to verify it doesn't panic.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	checker.Run(ctx)
}

func TestChecker_CheckSendsLogOnlyAlert(t *testing.T) {
	var received atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	cfg := config.MonitoringConfig{WebhookURL: ts.URL, FallbackRateThreshold: 0.2}
	collector := NewCollector()
	checker := NewChecker(collector, NewAlerter(cfg), cfg)

	collector.Observe(model.SubmitResult{Tier: model.TierLogOnly, LastError: errors.New("down")})
	checker.check(context.Background(), zap.NewNop())
	assert.Equal(t, int32(1), received.Load())

	// The window was drained, so a second check stays quiet.
	checker.check(context.Background(), zap.NewNop())
	assert.Equal(t, int32(1), received.Load())
}
