package schemacatalog

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one editor marker.
type Diagnostic struct {
	// Source is "json" for syntax errors, otherwise the association URI.
	Source   string
	Severity Severity
	Message  string
	// Path is the JSON pointer of the offending value.
	Path    string
	Keyword string
	Line    int
	Column  int
}

// SourceSyntax marks diagnostics produced by the JSON parser.
const SourceSyntax = "json"

// Diagnose checks text opened under fileURI. Syntax errors stop the pass;
// otherwise every matching association validates the document. Blank text
// has nothing to check.
func (r *Registry) Diagnose(fileURI, text string) []Diagnostic {
	value, err := jsonvalue.ParseOptional(text)
	if err != nil {
		return []Diagnostic{syntaxDiagnostic(err)}
	}
	if !value.Defined() {
		return nil
	}

	var out []Diagnostic
	for _, e := range r.matching(fileURI) {
		if e.compileErr != nil {
			out = append(out, Diagnostic{
				Source:   e.association.URI,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("schema does not compile: %v", e.compileErr),
				Line:     1,
				Column:   1,
			})
			continue
		}
		for _, issue := range e.validator.Validate(value) {
			out = append(out, issueDiagnostic(e.association.URI, text, issue))
		}
	}
	return out
}

func syntaxDiagnostic(err error) Diagnostic {
	diag := Diagnostic{
		Source:   SourceSyntax,
		Severity: SeverityError,
		Message:  err.Error(),
		Line:     1,
		Column:   1,
	}
	var syntax *jsonvalue.SyntaxError
	if errors.As(err, &syntax) {
		diag.Message = syntax.Msg
		diag.Line = syntax.Line
		diag.Column = syntax.Column
	}
	return diag
}

func issueDiagnostic(source, text string, issue validation.Issue) Diagnostic {
	diag := Diagnostic{
		Source:   source,
		Severity: SeverityError,
		Message:  issue.Message,
		Path:     issue.Path,
		Keyword:  issue.Keyword,
		Line:     1,
		Column:   1,
	}
	if line, col, ok := jsonvalue.Locate(text, issue.Path); ok {
		diag.Line = line
		diag.Column = col
	}
	return diag
}
