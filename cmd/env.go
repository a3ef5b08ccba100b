package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/catalog"
	"github.com/sells-group/clinic-quiz/internal/config"
	"github.com/sells-group/clinic-quiz/internal/inquiry"
	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/monitoring"
	"github.com/sells-group/clinic-quiz/internal/persist"
	"github.com/sells-group/clinic-quiz/internal/resilience"
	"github.com/sells-group/clinic-quiz/internal/scorer"
	"github.com/sells-group/clinic-quiz/internal/store"
)

// quizEnv holds everything a command needs. Primary is nil when the
// configured database is unavailable or disabled.
type quizEnv struct {
	Catalog     *catalog.Catalog
	Engine      *scorer.Engine
	Primary     store.Store
	CSV         *store.CSVStore
	Coordinator *persist.Coordinator
	Lister      *inquiry.Lister
	Metrics     *monitoring.Collector
}

// Close releases backend connections.
func (e *quizEnv) Close() {
	if e.Primary != nil {
		if err := e.Primary.Close(); err != nil {
			zap.L().Warn("close primary store", zap.Error(err))
		}
	}
}

// initEnv loads the catalog and wires the storage tiers. A primary store
// that cannot be opened is logged and skipped; the CSV tier alone keeps
// intake working. In read mode nothing is migrated, so listing never
// creates tables or files.
func initEnv(ctx context.Context, c *config.Config, mode string) (*quizEnv, error) {
	cat, err := catalog.Load(c.Catalog.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load catalog")
	}
	eng, err := scorer.New(cat)
	if err != nil {
		return nil, err
	}

	env := &quizEnv{
		Catalog: cat,
		Engine:  eng,
		CSV:     store.NewCSV(c.CSV.Path),
	}

	primary, err := initPrimary(ctx, c.Store)
	if err != nil {
		zap.L().Warn("primary store unavailable, continuing with csv tier only",
			zap.String("driver", c.Store.Driver),
			zap.Error(err),
		)
	} else if primary != nil {
		env.Primary = primary
	}

	if mode != "read" {
		env.migrate(ctx)
	}

	var tiers []persist.Tier
	readers := []store.Reader{}
	if env.Primary != nil {
		breakerCfg := resilience.FromCircuitConfig(c.Circuit.FailureThreshold, c.Circuit.ResetTimeoutSecs)
		name := env.Primary.Name()
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			zap.L().Warn("primary tier circuit changed",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		}
		guarded := store.NewGuarded(env.Primary,
			resilience.NewCircuitBreaker(breakerCfg),
			resilience.FromRetryConfig(c.Retry.MaxAttempts, c.Retry.InitialBackoffMs),
		)
		tiers = append(tiers, persist.Tier{Role: model.TierPrimary, Writer: guarded})
		readers = append(readers, env.Primary)
	}
	tiers = append(tiers, persist.Tier{Role: model.TierSecondary, Writer: env.CSV})
	readers = append(readers, env.CSV)

	env.Metrics = monitoring.NewCollector()
	env.Coordinator = persist.NewCoordinator(tiers...).WithObserver(env.Metrics)
	env.Lister = inquiry.NewLister(readers...)
	return env, nil
}

func (e *quizEnv) migrate(ctx context.Context) {
	if e.Primary != nil {
		if err := e.Primary.Migrate(ctx); err != nil {
			zap.L().Warn("primary store migration failed", zap.String("backend", e.Primary.Name()), zap.Error(err))
		}
	}
	if err := e.CSV.Migrate(ctx); err != nil {
		zap.L().Warn("csv tier init failed", zap.String("path", e.CSV.Path()), zap.Error(err))
	}
}

func initPrimary(ctx context.Context, sc config.StoreConfig) (store.Store, error) {
	switch sc.Driver {
	case "none", "":
		return nil, nil
	case "sqlite":
		dsn := sc.DatabaseURL
		if dsn == "" {
			dsn = "quiz.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		if sc.DatabaseURL == "" {
			return nil, eris.New("store.database_url is required for postgres (QUIZ_STORE_DATABASE_URL)")
		}
		return store.NewPostgres(ctx, sc.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", sc.Driver)
	}
}
