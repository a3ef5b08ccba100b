package model

// Question is one step of the clinic questionnaire.
type Question struct {
	ID            int              `json:"id" yaml:"id"`
	Text          string           `json:"text" yaml:"text"`
	Options       []QuestionOption `json:"options" yaml:"options"`
	AllowMultiple bool             `json:"allowMultiple,omitempty" yaml:"allow_multiple"`
}

// QuestionOption is a selectable answer. Value is the token used in scoring
// and is unique within its question.
type QuestionOption struct {
	ID    string `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Value string `json:"value" yaml:"value"`
}

// Option returns the option carrying value, if any.
func (q Question) Option(value string) (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return QuestionOption{}, false
}

// Answer is the response to one question. For multi-select questions Answer
// holds the selected values joined with commas.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

// Solution is a recommendable marketing-service package.
type Solution struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Category      string   `json:"category" yaml:"category"`
	Conditions    []string `json:"conditions" yaml:"conditions"`
	Benefits      []string `json:"benefits" yaml:"benefits"`
	EstimatedCost string   `json:"estimatedCost" yaml:"estimated_cost"`
	Timeline      string   `json:"timeline" yaml:"timeline"`
}
