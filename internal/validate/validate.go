// Package validate checks inquiry contact details before anything is persisted.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindMissingFields  Kind = "missing_fields"
	KindBadPhoneFormat Kind = "bad_phone_format"
	KindBadEmailFormat Kind = "bad_email_format"
)

// Error is a user-correctable validation failure.
type Error struct {
	Kind   Kind
	Fields []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingFields:
		return fmt.Sprintf("validate: missing required fields: %s", strings.Join(e.Fields, ", "))
	case KindBadPhoneFormat:
		return "validate: phone must look like 010-1234-5678"
	case KindBadEmailFormat:
		return "validate: email address is not valid"
	default:
		return "validate: " + string(e.Kind)
	}
}

// Message returns the message shown to the person filling in the form.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMissingFields:
		return "필수 정보가 누락되었습니다."
	case KindBadPhoneFormat:
		return "올바른 전화번호 형식을 입력해주세요. (예: 010-1234-5678)"
	case KindBadEmailFormat:
		return "올바른 이메일 형식을 입력해주세요."
	default:
		return "입력값을 확인해주세요."
	}
}

// Payload is an inquiry request as received from the client.
type Payload struct {
	Name                string         `json:"name"`
	Phone               string         `json:"phone"`
	ClinicName          string         `json:"clinicName"`
	Email               string         `json:"email"`
	RecommendedSolution string         `json:"recommendedSolution"`
	Answers             []model.Answer `json:"answers"`
}

var (
	phonePattern = regexp.MustCompile(`^\d{3}-\d{4}-\d{4}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Normalize trims surrounding whitespace and converts text fields to NFC so
// decomposed Hangul from some mobile keyboards is stored consistently.
func Normalize(p Payload) Payload {
	clean := func(s string) string { return norm.NFC.String(strings.TrimSpace(s)) }
	p.Name = clean(p.Name)
	p.Phone = clean(p.Phone)
	p.ClinicName = clean(p.ClinicName)
	p.Email = clean(p.Email)
	p.RecommendedSolution = clean(p.RecommendedSolution)
	return p
}

// Validate reports the first problem with p, or nil.
func Validate(p Payload) error {
	var missing []string
	for _, f := range []struct {
		name  string
		empty bool
	}{
		{"name", p.Name == ""},
		{"phone", p.Phone == ""},
		{"clinicName", p.ClinicName == ""},
		{"email", p.Email == ""},
		{"recommendedSolution", p.RecommendedSolution == ""},
		{"answers", len(p.Answers) == 0},
	} {
		if f.empty {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &Error{Kind: KindMissingFields, Fields: missing}
	}

	if !phonePattern.MatchString(p.Phone) {
		return &Error{Kind: KindBadPhoneFormat}
	}
	if !emailPattern.MatchString(p.Email) {
		return &Error{Kind: KindBadEmailFormat}
	}
	return nil
}
