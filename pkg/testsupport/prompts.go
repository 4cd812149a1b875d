package testsupport

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstudio/pkg/renderers/tui"
)

// ScriptedDriver is a tui.PromptDriver that replays canned answers. Each
// prompt kind consumes its own queue; an exhausted queue is an error.
type ScriptedDriver struct {
	Inputs    []string
	Passwords []string
	Confirms  []bool
	Selects   []int
	TextAreas []string

	// Err, when set, is returned by every prompt.
	Err error

	// Prompts records the message of every prompt in order.
	Prompts []string
	// Defaults records the default offered by every text prompt.
	Defaults []string
	// Infos records every message printed between prompts.
	Infos []string
}

var _ tui.PromptDriver = (*ScriptedDriver)(nil)

func (d *ScriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.Prompts = append(d.Prompts, cfg.Message)
	d.Defaults = append(d.Defaults, cfg.Default)
	if d.Err != nil {
		return "", d.Err
	}
	if len(d.Inputs) == 0 {
		return "", fmt.Errorf("testsupport: no input scripted for %q", cfg.Message)
	}
	val := d.Inputs[0]
	d.Inputs = d.Inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (d *ScriptedDriver) Password(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.Prompts = append(d.Prompts, cfg.Message)
	d.Defaults = append(d.Defaults, cfg.Default)
	if d.Err != nil {
		return "", d.Err
	}
	if len(d.Passwords) == 0 {
		return "", fmt.Errorf("testsupport: no password scripted for %q", cfg.Message)
	}
	val := d.Passwords[0]
	d.Passwords = d.Passwords[1:]
	return val, nil
}

func (d *ScriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	d.Prompts = append(d.Prompts, cfg.Message)
	if d.Err != nil {
		return false, d.Err
	}
	if len(d.Confirms) == 0 {
		return false, fmt.Errorf("testsupport: no confirm scripted for %q", cfg.Message)
	}
	val := d.Confirms[0]
	d.Confirms = d.Confirms[1:]
	return val, nil
}

func (d *ScriptedDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	d.Prompts = append(d.Prompts, cfg.Message)
	if d.Err != nil {
		return -1, d.Err
	}
	if len(d.Selects) == 0 {
		return -1, fmt.Errorf("testsupport: no select scripted for %q", cfg.Message)
	}
	val := d.Selects[0]
	d.Selects = d.Selects[1:]
	return val, nil
}

func (d *ScriptedDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	d.Prompts = append(d.Prompts, cfg.Message)
	d.Defaults = append(d.Defaults, cfg.Default)
	if d.Err != nil {
		return "", d.Err
	}
	if len(d.TextAreas) == 0 {
		return "", fmt.Errorf("testsupport: no text scripted for %q", cfg.Message)
	}
	val := d.TextAreas[0]
	d.TextAreas = d.TextAreas[1:]
	return val, nil
}

func (d *ScriptedDriver) Info(_ context.Context, msg string) error {
	d.Infos = append(d.Infos, msg)
	return nil
}
