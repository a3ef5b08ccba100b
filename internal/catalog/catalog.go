// Package catalog holds the static questionnaire, solution catalog and
// condition weight table used for recommendations.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// ErrEmpty is returned when a catalog has no solutions to recommend.
var ErrEmpty = eris.New("catalog: no solutions configured")

// Catalog is loaded once at startup and never mutated afterwards.
type Catalog struct {
	Questions []model.Question   `yaml:"questions"`
	Solutions []model.Solution   `yaml:"solutions"`
	Weights   map[string]float64 `yaml:"weights"`
}

// Weight returns the extra score for a matched condition token. Unweighted
// tokens weigh 0.
func (c *Catalog) Weight(token string) float64 {
	return c.Weights[token]
}

// Question returns the question with the given id.
func (c *Catalog) Question(id int) (model.Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}

// SolutionByID returns the solution with the given id.
func (c *Catalog) SolutionByID(id string) (model.Solution, bool) {
	for _, s := range c.Solutions {
		if s.ID == id {
			return s, true
		}
	}
	return model.Solution{}, false
}

// Validate checks that the catalog is usable for scoring.
func (c *Catalog) Validate() error {
	if len(c.Solutions) == 0 {
		return ErrEmpty
	}

	var errs []string

	seen := make(map[string]bool, len(c.Solutions))
	for i, s := range c.Solutions {
		if s.ID == "" {
			errs = append(errs, fmt.Sprintf("solution %d has no id", i))
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate solution id %q", s.ID))
		}
		seen[s.ID] = true
	}

	qids := make(map[int]bool, len(c.Questions))
	for _, q := range c.Questions {
		if qids[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id %d", q.ID))
		}
		qids[q.ID] = true

		values := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if values[o.Value] {
				errs = append(errs, fmt.Sprintf("question %d: duplicate option value %q", q.ID, o.Value))
			}
			values[o.Value] = true
		}
	}

	for token, w := range c.Weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("weight for %q must be >= 0", token))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("catalog: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadFile reads a catalog from a YAML file and validates it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: parse")
	}
	if c.Weights == nil {
		c.Weights = map[string]float64{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load returns the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
