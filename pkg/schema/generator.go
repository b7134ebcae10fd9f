// Package schema generates JSON schemas from Go types.
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

const modulePath = "github.com/macropower/leads"

// Generator reflects a JSON schema from a Go value.
type Generator struct {
	reflector *jsonschema.Reflector
	v         any
	names     map[reflect.Type]string
	packages  []string
}

// NewGenerator creates a new [Generator] for v. Doc comments are read from
// the given packages, which must be part of this module.
func NewGenerator(v any, packages ...string) *Generator {
	g := &Generator{
		v:        v,
		names:    map[reflect.Type]string{},
		packages: packages,
	}
	g.reflector = &jsonschema.Reflector{
		Mapper: mapType,
		Namer:  g.name,
	}

	return g
}

// Rename sets the definition name used for t. Types from different packages
// that share a name must be renamed, or their definitions collide.
func (g *Generator) Rename(t reflect.Type, name string) *Generator {
	g.names[t] = name

	return g
}

func (g *Generator) name(t reflect.Type) string {
	return g.names[t]
}

// Generate returns the indented schema document.
func (g *Generator) Generate() ([]byte, error) {
	for _, pkg := range g.packages {
		rel, ok := strings.CutPrefix(pkg, modulePath)
		if !ok {
			return nil, fmt.Errorf("package %q is outside of %s", pkg, modulePath)
		}

		err := g.reflector.AddGoComments(modulePath, "./"+strings.TrimPrefix(rel, "/"))
		if err != nil {
			return nil, fmt.Errorf("add comments from %s: %w", pkg, err)
		}
	}

	jss := g.reflector.Reflect(g.v)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// mapType describes types whose YAML form differs from their Go kind.
func mapType(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeFor[time.Duration]() {
		return &jsonschema.Schema{
			Type:        "string",
			Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
			Description: "A duration such as 300ms, 1.5s, or 2m.",
		}
	}

	return nil
}
