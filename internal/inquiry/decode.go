// Package inquiry reads stored inquiries back for the admin view.
package inquiry

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// Strategy names reported on each SubmissionView.
const (
	StrategyJSON          = "json"
	StrategyDoubledQuotes = "doubled-quotes"
	StrategyEscapedQuotes = "escaped-quotes"
	StrategyPattern       = "pattern"
	StrategyRaw           = "raw"
)

// Strategy is one attempt at turning a stored answers payload into answers.
type Strategy struct {
	Name   string
	Decode func(raw string) ([]model.Answer, error)
}

// DefaultStrategies is the ordered chain used by Decode.
var DefaultStrategies = []Strategy{
	{Name: StrategyJSON, Decode: decodeJSON},
	{Name: StrategyDoubledQuotes, Decode: func(raw string) ([]model.Answer, error) {
		return decodeJSON(stripOuterQuotes(strings.ReplaceAll(raw, `""`, `"`)))
	}},
	{Name: StrategyEscapedQuotes, Decode: func(raw string) ([]model.Answer, error) {
		return decodeJSON(stripOuterQuotes(strings.ReplaceAll(raw, `\"`, `"`)))
	}},
	{Name: StrategyPattern, Decode: extractPairs},
}

// Decode runs DefaultStrategies in order and returns the first success with
// its strategy name. When all fail the answers are nil and the strategy is
// StrategyRaw; the caller keeps the raw string.
func Decode(raw string) ([]model.Answer, string) {
	return DecodeWith(DefaultStrategies, raw)
}

// DecodeWith runs the given strategies in order.
func DecodeWith(strategies []Strategy, raw string) ([]model.Answer, string) {
	for _, s := range strategies {
		answers, err := s.Decode(raw)
		if err == nil {
			return answers, s.Name
		}
	}
	return nil, StrategyRaw
}

// decodeJSON accepts an array of answers or a single answer object.
func decodeJSON(raw string) ([]model.Answer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, eris.New("inquiry: empty answers")
	}

	var answers []model.Answer
	if err := json.Unmarshal([]byte(raw), &answers); err == nil {
		return answers, nil
	}

	var single model.Answer
	if err := json.Unmarshal([]byte(raw), &single); err != nil {
		return nil, eris.Wrap(err, "inquiry: decode answers json")
	}
	if single.QuestionID == 0 && single.Answer == "" {
		return nil, eris.New("inquiry: answers json has no answer fields")
	}
	return []model.Answer{single}, nil
}

func stripOuterQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

var (
	doubledPairRe = regexp.MustCompile(`""questionId""\s*:\s*(\d+)\s*,\s*""answer""\s*:\s*""([^"]*)""`)
	plainPairRe   = regexp.MustCompile(`"questionId"\s*:\s*(\d+)\s*,\s*"answer"\s*:\s*"([^"]*)"`)
)

// extractPairs recovers questionId/answer pairs by text matching, which
// survives truncated payloads.
func extractPairs(raw string) ([]model.Answer, error) {
	for _, re := range []*regexp.Regexp{doubledPairRe, plainPairRe} {
		matches := re.FindAllStringSubmatch(raw, -1)
		if len(matches) == 0 {
			continue
		}
		answers := make([]model.Answer, 0, len(matches))
		for _, m := range matches {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			answers = append(answers, model.Answer{QuestionID: id, Answer: m[2]})
		}
		if len(answers) > 0 {
			return answers, nil
		}
	}
	return nil, eris.New("inquiry: no answer pairs found")
}
