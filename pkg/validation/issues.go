package validation

import "strings"

// Mode controls whether validation runs and whether its results are shown.
type Mode string

const (
	ModeValidateAndShow Mode = "ValidateAndShow"
	ModeValidateAndHide Mode = "ValidateAndHide"
	ModeNoValidation    Mode = "NoValidation"
)

// ParseMode accepts the canonical mode names case-insensitively. Unknown
// values fall back to ModeValidateAndShow.
func ParseMode(raw string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case strings.ToLower(string(ModeValidateAndShow)), "show", "":
		return ModeValidateAndShow, true
	case strings.ToLower(string(ModeValidateAndHide)), "hide":
		return ModeValidateAndHide, true
	case strings.ToLower(string(ModeNoValidation)), "none", "off":
		return ModeNoValidation, true
	default:
		return ModeValidateAndShow, false
	}
}

// Validates reports whether the mode runs validation at all.
func (m Mode) Validates() bool {
	return m != ModeNoValidation
}

// Shows reports whether validation results should be displayed.
func (m Mode) Shows() bool {
	return m == ModeValidateAndShow || m == ""
}

// Issue is one failed validation rule.
type Issue struct {
	// Path is the JSON pointer of the offending instance ("" for the root).
	Path string `json:"path"`
	// Field is the dotted field path renderers attach the message to.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Keyword names the failing schema rule (e.g. "required", "minLength").
	Keyword string `json:"keyword,omitempty"`
}

// ErrorSet is the full list of issues reported by one validation pass. It is
// replaced wholesale, never merged.
type ErrorSet []Issue

// Empty reports whether the set holds no issues.
func (s ErrorSet) Empty() bool {
	return len(s) == 0
}

// ForField returns the issues attached to a dotted field path.
func (s ErrorSet) ForField(field string) []Issue {
	var out []Issue
	for _, issue := range s {
		if issue.Field == field {
			out = append(out, issue)
		}
	}
	return out
}

// Messages groups messages by field path. Root level issues use the "" key.
func (s ErrorSet) Messages() map[string][]string {
	if len(s) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range s {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Clone returns a copy of the set.
func (s ErrorSet) Clone() ErrorSet {
	if s == nil {
		return nil
	}
	return append(ErrorSet(nil), s...)
}
