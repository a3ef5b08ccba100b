// Package scorer recommends a marketing solution from quiz answers using the
// weighted condition table in the catalog.
package scorer

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/catalog"
	"github.com/sells-group/clinic-quiz/internal/model"
)

// SolutionScore is the score breakdown for one candidate solution.
type SolutionScore struct {
	Solution model.Solution `json:"solution"`
	Score    float64        `json:"score"`
	Base     float64        `json:"base"`
	Weighted float64        `json:"weighted"`
	Matched  []string       `json:"matched"`
}

// Engine scores solutions against answers. It holds only immutable catalog
// data and is safe for concurrent use.
type Engine struct {
	cat *catalog.Catalog
}

// New creates an Engine. It fails with catalog.ErrEmpty when there is
// nothing to recommend.
func New(cat *catalog.Catalog) (*Engine, error) {
	if cat == nil || len(cat.Solutions) == 0 {
		return nil, catalog.ErrEmpty
	}
	return &Engine{cat: cat}, nil
}

// Normalize flattens answers into scoring tokens. Comma-joined multi-select
// answers are split and trimmed; everything else passes through verbatim.
func Normalize(answers []model.Answer) []string {
	tokens := make([]string, 0, len(answers))
	for _, a := range answers {
		if !strings.Contains(a.Answer, ",") {
			tokens = append(tokens, a.Answer)
			continue
		}
		for _, part := range strings.Split(a.Answer, ",") {
			tokens = append(tokens, strings.TrimSpace(part))
		}
	}
	return tokens
}

// Scores returns every solution's score, highest first. Equal scores keep
// catalog order.
func (e *Engine) Scores(answers []model.Answer) []SolutionScore {
	present := make(map[string]bool)
	for _, tok := range Normalize(answers) {
		present[tok] = true
	}

	scores := make([]SolutionScore, 0, len(e.cat.Solutions))
	for _, sol := range e.cat.Solutions {
		ss := SolutionScore{Solution: sol}
		counted := make(map[string]bool, len(sol.Conditions))
		for _, cond := range sol.Conditions {
			if counted[cond] || !present[cond] {
				continue
			}
			counted[cond] = true
			ss.Base++
			ss.Weighted += e.cat.Weight(cond)
			ss.Matched = append(ss.Matched, cond)
		}
		ss.Score = ss.Base + ss.Weighted
		scores = append(scores, ss)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// Recommend returns the best matching solution. When nothing matches, the
// first catalog entry is returned.
func (e *Engine) Recommend(answers []model.Answer) model.Solution {
	scores := e.Scores(answers)

	if ce := zap.L().Check(zap.DebugLevel, "scorer: solution scores"); ce != nil {
		fields := make([]zap.Field, 0, len(scores))
		for _, s := range scores {
			fields = append(fields, zap.Dict(s.Solution.ID,
				zap.String("name", s.Solution.Name),
				zap.Float64("total", s.Score),
				zap.Float64("base", s.Base),
				zap.Float64("weight", s.Weighted),
				zap.Strings("matched", s.Matched),
			))
		}
		ce.Write(append(fields, zap.Strings("tokens", Normalize(answers)))...)
	}

	return scores[0].Solution
}
