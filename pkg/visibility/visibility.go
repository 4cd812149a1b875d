// Package visibility evaluates UI schema rules. A rule applies an effect to
// an element (and everything inside it) when the data at the rule's scope
// satisfies a condition schema:
//
//	"rule": {
//	  "effect": "HIDE",
//	  "condition": {"scope": "#/properties/subscribe", "schema": {"const": false}}
//	}
package visibility

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/jsonvalue"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// Effect is what a satisfied condition does to an element.
type Effect string

const (
	EffectHide    Effect = "HIDE"
	EffectShow    Effect = "SHOW"
	EffectEnable  Effect = "ENABLE"
	EffectDisable Effect = "DISABLE"
)

// Rule is the decoded "rule" member of a UI schema element.
type Rule struct {
	Effect Effect
	// Scope is a JSON pointer into the schema, "#" for the whole document.
	Scope  string
	Schema jsonvalue.Value
	// FailWhenUndefined makes a missing value fail the condition. By default
	// an undefined value satisfies it.
	FailWhenUndefined bool
}

// Outcome is the state of an element after its rule.
type Outcome struct {
	Visible bool
	Enabled bool
}

// ParseRule reads the rule of a UI schema element. ok is false when the
// element has none.
func ParseRule(element map[string]any) (Rule, bool, error) {
	raw, present := element["rule"]
	if !present {
		return Rule{}, false, nil
	}
	obj, isObj := raw.(map[string]any)
	if !isObj {
		return Rule{}, false, errors.New("visibility: rule must be an object")
	}

	effect, _ := obj["effect"].(string)
	rule := Rule{Effect: Effect(strings.ToUpper(strings.TrimSpace(effect)))}
	switch rule.Effect {
	case EffectHide, EffectShow, EffectEnable, EffectDisable:
	default:
		return Rule{}, false, fmt.Errorf("visibility: unknown effect %q", effect)
	}

	condition, isObj := obj["condition"].(map[string]any)
	if !isObj {
		return Rule{}, false, errors.New("visibility: rule condition must be an object")
	}
	rule.Scope, _ = condition["scope"].(string)
	if rule.Scope == "" {
		rule.Scope = "#"
	}
	if !strings.HasPrefix(rule.Scope, "#") {
		return Rule{}, false, fmt.Errorf("visibility: scope %q must start with '#'", rule.Scope)
	}
	schema, err := jsonvalue.From(condition["schema"])
	if err != nil {
		return Rule{}, false, fmt.Errorf("visibility: condition schema: %w", err)
	}
	if _, isObj := schema.Object(); !isObj {
		return Rule{}, false, errors.New("visibility: condition schema must be an object")
	}
	rule.Schema = schema
	rule.FailWhenUndefined, _ = condition["failWhenUndefined"].(bool)
	return rule, true, nil
}

// Evaluator checks rules against a data document. Condition schemas are
// compiled once per evaluator.
type Evaluator struct {
	mu         sync.Mutex
	validators map[string]*validation.Validator
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{validators: make(map[string]*validation.Validator)}
}

// Eval applies rule to the data document.
func (e *Evaluator) Eval(rule Rule, data jsonvalue.Value) (Outcome, error) {
	satisfied, err := e.satisfied(rule, data)
	if err != nil {
		return Outcome{}, err
	}
	outcome := Outcome{Visible: true, Enabled: true}
	switch rule.Effect {
	case EffectHide:
		outcome.Visible = !satisfied
	case EffectShow:
		outcome.Visible = satisfied
	case EffectEnable:
		outcome.Enabled = satisfied
	case EffectDisable:
		outcome.Enabled = !satisfied
	default:
		return Outcome{}, fmt.Errorf("visibility: unknown effect %q", rule.Effect)
	}
	return outcome, nil
}

func (e *Evaluator) satisfied(rule Rule, data jsonvalue.Value) (bool, error) {
	value, err := valueAt(data, rule.Scope)
	if err != nil {
		return false, err
	}
	if !value.Defined() && rule.FailWhenUndefined {
		return false, nil
	}
	validator, err := e.validator(rule.Schema)
	if err != nil {
		return false, err
	}
	return len(validator.Validate(value)) == 0, nil
}

func (e *Evaluator) validator(schema jsonvalue.Value) (*validation.Validator, error) {
	key, err := jsonvalue.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("visibility: encode condition schema: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if validator, ok := e.validators[key]; ok {
		return validator, nil
	}
	validator, err := validation.Compile(fmt.Sprintf("rules/%d.json", len(e.validators)), schema)
	if err != nil {
		return nil, fmt.Errorf("visibility: %w", err)
	}
	e.validators[key] = validator
	return validator, nil
}

// valueAt resolves a schema scope such as "#/properties/a/properties/b" to
// the data at "a.b".
func valueAt(data jsonvalue.Value, scope string) (jsonvalue.Value, error) {
	segments := jsonvalue.SplitPointer(strings.TrimPrefix(scope, "#"))
	if len(segments) == 0 {
		return data, nil
	}
	names := make([]string, 0, len(segments)/2)
	for i := 0; i < len(segments); i += 2 {
		if segments[i] != "properties" || i+1 >= len(segments) {
			return jsonvalue.Value{}, fmt.Errorf("visibility: unsupported scope %q", scope)
		}
		names = append(names, segments[i+1])
	}
	value, ok := data.Get(strings.Join(names, "."))
	if !ok {
		return jsonvalue.Undefined(), nil
	}
	return jsonvalue.Of(value), nil
}
