package common

import "github.com/macropower/leads/pkg/keys"

// KeyBinds apply in every view.
type KeyBinds struct {
	Quit      *keys.Bind `json:"quit,omitempty"      jsonschema:"title=Quit"`
	Suspend   *keys.Bind `json:"suspend,omitempty"   jsonschema:"title=Suspend"`
	Help      *keys.Bind `json:"help,omitempty"      jsonschema:"title=Help"`
	Back      *keys.Bind `json:"back,omitempty"      jsonschema:"title=Back"`
	Refresh   *keys.Bind `json:"refresh,omitempty"   jsonschema:"title=Refresh"`
	Dashboard *keys.Bind `json:"dashboard,omitempty" jsonschema:"title=Toggle Dashboard"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Quit, keys.NewBind("quit", keys.New("ctrl+c"), keys.New("q")))
	keys.SetDefault(&kb.Suspend, keys.NewBind("suspend", keys.New("ctrl+z", keys.Hidden())))
	keys.SetDefault(&kb.Help, keys.NewBind("help", keys.New("?")))
	keys.SetDefault(&kb.Back, keys.NewBind("back", keys.New("esc")))
	keys.SetDefault(&kb.Refresh, keys.NewBind("refresh", keys.New("r"), keys.New("f5", keys.Hidden())))
	keys.SetDefault(&kb.Dashboard, keys.NewBind("dashboard", keys.New("tab")))
}

func (kb *KeyBinds) Binds() []*keys.Bind {
	return []*keys.Bind{kb.Quit, kb.Suspend, kb.Help, kb.Back, kb.Refresh, kb.Dashboard}
}
