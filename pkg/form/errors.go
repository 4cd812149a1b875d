package form

import (
	"strings"

	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// ErrorMapping groups messages by dotted field path. Issues that do not
// address a field land in Form.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrors merges the renderer error set with the state's additional errors.
// Validation errors are left out when the mode hides them; additional errors
// are always shown.
func MapErrors(s state.FormState, errs validation.ErrorSet) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	var issues []validation.Issue
	if s.ValidationMode.Shows() {
		issues = append(issues, errs...)
	}
	issues = append(issues, s.AdditionalErrors...)

	for _, issue := range issues {
		field := strings.TrimSpace(issue.Field)
		if field == "" {
			mapping.Form = append(mapping.Form, issue.Message)
			continue
		}
		mapping.Fields[field] = append(mapping.Fields[field], issue.Message)
	}

	for field, messages := range mapping.Fields {
		mapping.Fields[field] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
