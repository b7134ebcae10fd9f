// Package keys defines configurable key bindings and renders them as help.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Ellipsis is appended to truncated descriptions.
const Ellipsis = "…"

// Key represents a keyboard key with optional alias and visibility settings.
type Key struct {
	// Code is the key code identifier, as reported by bubbletea.
	Code string `json:"code" jsonschema:"title=Code"`
	// Alias is an alternative display name for the key.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden determines if the key should be hidden from help.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

type KeyOpt func(k *Key)

func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// Bind is a set of keys triggering one action.
type Bind struct {
	// Description says what the binding does.
	Description string `json:"description" jsonschema:"title=Description"`
	// Keys trigger the binding.
	Keys []Key `json:"keys" jsonschema:"title=Keys"`
}

func NewBind(description string, keys ...Key) Bind {
	return Bind{
		Description: description,
		Keys:        keys,
	}
}

// String joins the visible keys with "/".
func (b *Bind) String() string {
	ks := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		if !k.Hidden {
			ks = append(ks, k.String())
		}
	}

	return strings.Join(ks, "/")
}

// Match reports whether key triggers the binding.
func (b *Bind) Match(key string) bool {
	for _, k := range b.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

// AddKey adds key unless a key with the same code is already bound.
func (b *Bind) AddKey(key Key) {
	if b == nil || b.Match(key.Code) {
		return
	}

	b.Keys = append(b.Keys, key)
}

// Binding converts b to a [key.Binding] for use with bubbles components.
func (b *Bind) Binding() key.Binding {
	codes := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		codes = append(codes, k.Code)
	}

	return key.NewBinding(
		key.WithKeys(codes...),
		key.WithHelp(b.String(), b.Description),
	)
}

// Row renders b as a help row, padding the keys to keyWidth and truncating
// the description to descWidth.
func (b *Bind) Row(keyWidth, descWidth int) string {
	ks := b.String()
	if ks == "" {
		return ""
	}

	desc := truncate.StringWithTail(b.Description, uint(max(0, descWidth)), Ellipsis) //nolint:gosec // Clamped.

	return fmt.Sprintf("%s%s  %s", ks, strings.Repeat(" ", max(0, keyWidth-ansi.PrintableRuneWidth(ks))), desc)
}

// Validate returns an error for every key bound more than once.
func Validate(groups ...[]*Bind) error {
	var errs []error

	seen := map[string]string{}
	for _, binds := range groups {
		for _, b := range binds {
			for _, k := range b.Keys {
				if prev, ok := seen[k.Code]; ok {
					errs = append(errs, fmt.Errorf("key %q bound to both %q and %q", k.Code, prev, b.Description))

					continue
				}

				seen[k.Code] = b.Description
			}
		}
	}

	return errors.Join(errs...)
}

// SetDefault fills *b from def, allocating it if needed.
func SetDefault(b **Bind, def Bind) {
	if *b == nil {
		*b = &def

		return
	}

	if len((*b).Keys) == 0 {
		(*b).Keys = def.Keys
	}

	if (*b).Description == "" {
		(*b).Description = def.Description
	}
}
