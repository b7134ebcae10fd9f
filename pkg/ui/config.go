package ui

import (
	"errors"
	"time"

	"github.com/macropower/leads/pkg/keys"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/detail"
	"github.com/macropower/leads/pkg/ui/table"
)

// DefaultMinimumDelay is the shortest time a loading state stays visible.
const DefaultMinimumDelay = 200 * time.Millisecond

// Config contains TUI-specific configuration.
type Config struct {
	// KeyBinds overrides the default key bindings.
	KeyBinds *KeyBinds `json:"keybinds,omitempty" jsonschema:"title=Key Bindings"`
	// MinimumDelay is the shortest time a loading state stays visible,
	// which avoids flicker on fast responses.
	MinimumDelay *time.Duration `json:"minimumDelay,omitempty" jsonschema:"title=Minimum Delay"`
	// Theme is the name of a chroma style, e.g. "github" or "dracula".
	Theme string `json:"theme,omitempty" jsonschema:"title=Theme"`
	// Compact hides the ADTS and flag columns.
	Compact bool `json:"compact,omitempty" jsonschema:"title=Compact"`
	// HideDashboard starts on the table instead of the dashboard.
	HideDashboard bool `json:"hideDashboard,omitempty" jsonschema:"title=Hide Dashboard"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.KeyBinds == nil {
		c.KeyBinds = &KeyBinds{}
	}

	c.KeyBinds.EnsureDefaults()

	if c.MinimumDelay == nil {
		d := DefaultMinimumDelay
		c.MinimumDelay = &d
	}

	if c.Theme == "" {
		c.Theme = "github"
	}
}

func (c *Config) Validate() error {
	if c.MinimumDelay != nil && *c.MinimumDelay < 0 {
		return errors.New("ui.minimumDelay: must not be negative")
	}

	return c.KeyBinds.Validate()
}

// KeyBinds contains the key bindings of every view.
type KeyBinds struct {
	Common *common.KeyBinds `json:"common,omitempty" jsonschema:"title=Common"`
	Table  *table.KeyBinds  `json:"table,omitempty"  jsonschema:"title=Table"`
	Detail *detail.KeyBinds `json:"detail,omitempty" jsonschema:"title=Detail"`
}

func (kb *KeyBinds) EnsureDefaults() {
	if kb.Common == nil {
		kb.Common = &common.KeyBinds{}
	}
	if kb.Table == nil {
		kb.Table = &table.KeyBinds{}
	}
	if kb.Detail == nil {
		kb.Detail = &detail.KeyBinds{}
	}

	kb.Common.EnsureDefaults()
	kb.Table.EnsureDefaults()
	kb.Detail.EnsureDefaults()
}

// Validate rejects keys bound twice within a view. Common bindings apply
// to every view.
func (kb *KeyBinds) Validate() error {
	return errors.Join(
		keys.Validate(kb.Common.Binds(), kb.Table.Binds()),
		keys.Validate(kb.Common.Binds(), kb.Detail.Binds()),
	)
}
