// Package action runs user-defined external commands against a customer,
// as defined by configuration. The selected customer is exposed to the
// command through environment variables.
package action

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mattn/go-shellwords"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/keys"
	"github.com/macropower/leads/pkg/log"
)

const envPrefix = "LEADS_CUSTOMER_"

var (
	// ErrCommandExecution is returned when command execution fails.
	ErrCommandExecution = errors.New("run")

	// ErrEmptyCommand is returned when a command is empty.
	ErrEmptyCommand = errors.New("empty command")

	// ErrNotFound is returned when no action has the requested name.
	ErrNotFound = errors.New("action not found")

	// Inherited from the caller in addition to any configured variables.
	essentialVars = []string{"PATH", "HOME", "USER", "TERM", "COLORTERM", "LANG"}
)

// Result represents the result of a command execution.
type Result struct {
	Stdout string
	Stderr string
}

// EnvVar represents an environment variable definition.
type EnvVar struct {
	// Name is the environment variable name.
	Name string `json:"name" jsonschema:"title=Name"`
	// Value is the environment variable value. It may reference other
	// variables, e.g. "$LEADS_CUSTOMER_EMAIL".
	Value string `json:"value,omitempty" jsonschema:"title=Value"`
}

// Action is an external command bound to a key.
type Action struct {
	// Name identifies the action.
	Name string `json:"name" jsonschema:"title=Name"`
	// Description is shown in help.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Command is a shell-style command line. Environment variables are
	// expanded after the customer variables are set.
	Command string `json:"command" jsonschema:"title=Command,minLength=1"`
	// Env contains additional environment variables.
	Env []EnvVar `json:"env,omitempty" jsonschema:"title=Environment Variables"`
	// Keys trigger the action in the UI.
	Keys []keys.Key `json:"keys,omitempty" jsonschema:"title=Keys"`
}

// Bind returns the key binding of the action.
func (a *Action) Bind() keys.Bind {
	desc := a.Description
	if desc == "" {
		desc = a.Name
	}

	return keys.NewBind(desc, a.Keys...)
}

// Environ returns the environment for running the action against c. baseEnv
// is usually [os.Environ]; only essential variables are inherited from it.
func (a *Action) Environ(baseEnv []string, c *customer.Customer) ([]string, error) {
	env := map[string]string{}

	for _, kv := range baseEnv {
		k, v, ok := strings.Cut(kv, "=")
		if ok && slices.Contains(essentialVars, k) {
			env[k] = v
		}
	}

	vars, err := CustomerEnv(c)
	if err != nil {
		return nil, err
	}

	for k, v := range vars {
		env[k] = v
	}

	for _, ev := range a.Env {
		if ev.Name == "" {
			continue
		}

		env[ev.Name] = expand(ev.Value, env)
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}

	slices.Sort(out)

	return out, nil
}

// Args parses the command line, expanding variables from env.
func (a *Action) Args(env []string) ([]string, error) {
	if strings.TrimSpace(a.Command) == "" {
		return nil, ErrEmptyCommand
	}

	vars := map[string]string{}
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	p := shellwords.NewParser()
	p.ParseEnv = true
	p.Getenv = func(key string) string {
		return vars[key]
	}

	args, err := p.Parse(a.Command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", a.Command, err)
	}

	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	return args, nil
}

// Run executes the action against c.
func (a *Action) Run(ctx context.Context, baseEnv []string, c *customer.Customer) (*Result, error) {
	ctx, span := otel.Tracer("action").Start(ctx, "run", trace.WithAttributes(
		attribute.String("action", a.Name),
		attribute.Int("customer", c.ID),
	))
	defer span.End()

	logger := log.WithContext(ctx).With(
		slog.String("action", a.Name),
		slog.Int("customer", c.ID),
	)

	env, err := a.Environ(baseEnv, c)
	if err != nil {
		return nil, err
	}

	args, err := a.Args(env)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	//nolint:gosec // G204: Subprocess launched with a potential tainted input or cmd arguments.
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.DebugContext(ctx, "action failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("err", err),
		)

		return result, fmt.Errorf("%w %s: %w", ErrCommandExecution, a.Name, err)
	}

	logger.DebugContext(ctx, "action executed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (a *Action) String() string {
	return fmt.Sprintf("%s: %s", a.Name, a.Command)
}

// Actions is a list of actions.
type Actions []*Action

// Get returns the action with the given name.
func (as Actions) Get(name string) (*Action, error) {
	for _, a := range as {
		if a.Name == name {
			return a, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// ForKey returns the action bound to key, or nil.
func (as Actions) ForKey(key string) *Action {
	for _, a := range as {
		b := a.Bind()
		if b.Match(key) {
			return a
		}
	}

	return nil
}

// Validate checks that every action is runnable and uniquely named.
func (as Actions) Validate() error {
	var errs []error

	seen := map[string]bool{}
	for i, a := range as {
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("actions[%d]: name is required", i))
		} else if seen[a.Name] {
			errs = append(errs, fmt.Errorf("actions[%d]: duplicate name %q", i, a.Name))
		}

		seen[a.Name] = true

		if _, err := shellwords.Parse(a.Command); err != nil {
			errs = append(errs, fmt.Errorf("actions[%d] %q: %w", i, a.Name, err))
		} else if strings.TrimSpace(a.Command) == "" {
			errs = append(errs, fmt.Errorf("actions[%d] %q: %w", i, a.Name, ErrEmptyCommand))
		}
	}

	return errors.Join(errs...)
}

// CustomerEnv returns the environment variables describing c.
func CustomerEnv(c *customer.Customer) (map[string]string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal customer: %w", err)
	}

	return map[string]string{
		envPrefix + "ID":       c.Key(),
		envPrefix + "NAME":     c.FullName,
		envPrefix + "EMAIL":    c.Email,
		envPrefix + "WHATSAPP": c.WhatsApp,
		envPrefix + "LETTER":   c.Letter,
		envPrefix + "LEVEL":    c.Level,
		envPrefix + "ADTS":     strconv.FormatFloat(c.ADTS, 'f', -1, 64),
		envPrefix + "YEAR":     strconv.Itoa(c.YearJoined),
		envPrefix + "JSON":     string(raw),
	}, nil
}

func expand(s string, env map[string]string) string {
	return os.Expand(s, func(k string) string { return env[k] })
}
