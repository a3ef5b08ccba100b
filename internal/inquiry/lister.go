package inquiry

import (
	"context"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/clinic-quiz/internal/model"
	"github.com/sells-group/clinic-quiz/internal/store"
)

// Lister merges the inquiries held by every configured reader.
type Lister struct {
	readers []store.Reader
}

// NewLister creates a Lister over readers. Readers are queried concurrently.
func NewLister(readers ...store.Reader) *Lister {
	return &Lister{readers: readers}
}

// List returns every inquiry, newest first, with answers decoded. A reader
// that fails is logged and skipped; an error is returned only when every
// reader fails.
func (l *Lister) List(ctx context.Context) ([]model.SubmissionView, error) {
	var (
		mu       sync.Mutex
		stored   []model.StoredInquiry
		failures int
		lastErr  error
	)

	g, gCtx := errgroup.WithContext(ctx)
	for _, r := range l.readers {
		g.Go(func() error {
			rows, err := r.ListInquiries(gCtx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				zap.L().Warn("inquiry: source failed, skipping",
					zap.String("source", r.Name()),
					zap.Error(err),
				)
				failures++
				lastErr = err
				return nil
			}
			stored = append(stored, rows...)
			return nil
		})
	}
	_ = g.Wait()

	if len(l.readers) > 0 && failures == len(l.readers) {
		return nil, eris.Wrap(lastErr, "inquiry: all sources failed")
	}

	views := make([]model.SubmissionView, 0, len(stored))
	for _, si := range stored {
		if !si.HasInquiry {
			continue
		}
		views = append(views, View(si))
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Timestamp.After(views[j].Timestamp)
	})
	return views, nil
}

// View decodes the stored answers of si.
func View(si model.StoredInquiry) model.SubmissionView {
	answers, strategy := Decode(si.RawAnswers)
	if strategy == StrategyRaw && si.RawAnswers != "" {
		zap.L().Debug("inquiry: answers kept raw",
			zap.String("id", si.ID),
			zap.String("source", si.Source),
		)
	}
	return model.SubmissionView{
		StoredInquiry:  si,
		Answers:        answers,
		DecodeStrategy: strategy,
	}
}
