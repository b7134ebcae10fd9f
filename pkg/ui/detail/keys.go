package detail

import "github.com/macropower/leads/pkg/keys"

// KeyBinds apply to the customer detail view.
type KeyBinds struct {
	Up     *keys.Bind `json:"up,omitempty"     jsonschema:"title=Scroll Up"`
	Down   *keys.Bind `json:"down,omitempty"   jsonschema:"title=Scroll Down"`
	Copy   *keys.Bind `json:"copy,omitempty"   jsonschema:"title=Copy"`
	Edit   *keys.Bind `json:"edit,omitempty"   jsonschema:"title=Edit"`
	Delete *keys.Bind `json:"delete,omitempty" jsonschema:"title=Delete"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Up, keys.NewBind("scroll up", keys.New("up", keys.WithAlias("↑")), keys.New("k")))
	keys.SetDefault(&kb.Down, keys.NewBind("scroll down", keys.New("down", keys.WithAlias("↓")), keys.New("j")))
	keys.SetDefault(&kb.Copy, keys.NewBind("copy as yaml", keys.New("y")))
	keys.SetDefault(&kb.Edit, keys.NewBind("edit", keys.New("e")))
	keys.SetDefault(&kb.Delete, keys.NewBind("delete", keys.New("d")))
}

func (kb *KeyBinds) Binds() []*keys.Bind {
	return []*keys.Bind{kb.Up, kb.Down, kb.Copy, kb.Edit, kb.Delete}
}
