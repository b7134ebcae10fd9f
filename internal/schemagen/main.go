package main

import (
	"flag"
	"log"
	"os"
	"reflect"

	"github.com/macropower/leads/pkg/config"
	"github.com/macropower/leads/pkg/schema"
	"github.com/macropower/leads/pkg/ui"
	"github.com/macropower/leads/pkg/ui/common"
	"github.com/macropower/leads/pkg/ui/detail"
	"github.com/macropower/leads/pkg/ui/table"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := schema.NewGenerator(config.NewConfig(),
		"github.com/macropower/leads/pkg/action",
		"github.com/macropower/leads/pkg/config",
		"github.com/macropower/leads/pkg/keys",
		"github.com/macropower/leads/pkg/rule",
		"github.com/macropower/leads/pkg/stats",
		"github.com/macropower/leads/pkg/ui",
		"github.com/macropower/leads/pkg/ui/common",
		"github.com/macropower/leads/pkg/ui/detail",
		"github.com/macropower/leads/pkg/ui/table",
	).
		Rename(reflect.TypeFor[ui.Config](), "UIConfig").
		Rename(reflect.TypeFor[common.KeyBinds](), "CommonKeyBinds").
		Rename(reflect.TypeFor[table.KeyBinds](), "TableKeyBinds").
		Rename(reflect.TypeFor[detail.KeyBinds](), "DetailKeyBinds")

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
