package table

import "github.com/macropower/leads/pkg/keys"

// KeyBinds apply to the customer table.
type KeyBinds struct {
	Up       *keys.Bind `json:"up,omitempty"       jsonschema:"title=Up"`
	Down     *keys.Bind `json:"down,omitempty"     jsonschema:"title=Down"`
	Next     *keys.Bind `json:"next,omitempty"     jsonschema:"title=Next Page"`
	Prev     *keys.Bind `json:"prev,omitempty"     jsonschema:"title=Previous Page"`
	First    *keys.Bind `json:"first,omitempty"    jsonschema:"title=First Page"`
	Last     *keys.Bind `json:"last,omitempty"     jsonschema:"title=Last Page"`
	Search   *keys.Bind `json:"search,omitempty"   jsonschema:"title=Search"`
	Where    *keys.Bind `json:"where,omitempty"    jsonschema:"title=Where"`
	Open     *keys.Bind `json:"open,omitempty"     jsonschema:"title=Open"`
	Create   *keys.Bind `json:"create,omitempty"   jsonschema:"title=Create"`
	Edit     *keys.Bind `json:"edit,omitempty"     jsonschema:"title=Edit"`
	Delete   *keys.Bind `json:"delete,omitempty"   jsonschema:"title=Delete"`
	PageSize *keys.Bind `json:"pageSize,omitempty" jsonschema:"title=Page Size"`
}

func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefault(&kb.Up, keys.NewBind("up", keys.New("up", keys.WithAlias("↑")), keys.New("k")))
	keys.SetDefault(&kb.Down, keys.NewBind("down", keys.New("down", keys.WithAlias("↓")), keys.New("j")))
	keys.SetDefault(&kb.Next, keys.NewBind("next page", keys.New("right", keys.WithAlias("→")), keys.New("l")))
	keys.SetDefault(&kb.Prev, keys.NewBind("previous page", keys.New("left", keys.WithAlias("←")), keys.New("h")))
	keys.SetDefault(&kb.First, keys.NewBind("first page", keys.New("home"), keys.New("g")))
	keys.SetDefault(&kb.Last, keys.NewBind("last page", keys.New("end"), keys.New("G")))
	keys.SetDefault(&kb.Search, keys.NewBind("search", keys.New("/")))
	keys.SetDefault(&kb.Where, keys.NewBind("filter", keys.New(":")))
	keys.SetDefault(&kb.Open, keys.NewBind("open", keys.New("enter")))
	keys.SetDefault(&kb.Create, keys.NewBind("new customer", keys.New("n")))
	keys.SetDefault(&kb.Edit, keys.NewBind("edit", keys.New("e")))
	keys.SetDefault(&kb.Delete, keys.NewBind("delete", keys.New("d")))
	keys.SetDefault(&kb.PageSize, keys.NewBind("page size", keys.New("s")))
}

func (kb *KeyBinds) Binds() []*keys.Bind {
	return []*keys.Bind{
		kb.Up, kb.Down, kb.Next, kb.Prev, kb.First, kb.Last,
		kb.Search, kb.Where, kb.Open, kb.Create, kb.Edit, kb.Delete, kb.PageSize,
	}
}
