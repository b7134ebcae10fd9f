package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/pkg/yaml"
)

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData []byte
		wantErr    bool
	}{
		"valid schema": {
			schemaData: []byte(`{"type": "object", "required": ["api"]}`),
		},
		"empty schema": {
			schemaData: []byte(`{}`),
		},
		"invalid json": {
			schemaData: []byte(`{"invalid": json}`),
			wantErr:    true,
			errMsg:     "unmarshal schema",
		},
		"invalid schema": {
			schemaData: []byte(`{"type": "invalid_type"}`),
			wantErr:    true,
			errMsg:     "compile schema",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := yaml.NewValidator("test", tc.schemaData)
			if tc.wantErr {
				require.ErrorContains(t, err, tc.errMsg)
				assert.Nil(t, validator)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, validator)
		})
	}
}

func TestValidatorValidate(t *testing.T) {
	t.Parallel()

	validator := yaml.MustNewValidator("test", []byte(`{
		"type": "object",
		"properties": {
			"table": {
				"type": "object",
				"properties": {
					"pageSize": {"type": "integer", "minimum": 1}
				}
			},
			"highlights": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"name": {"type": "string"},
						"match": {"type": "string"}
					},
					"required": ["match"]
				}
			}
		},
		"required": ["table"]
	}`))

	tcs := map[string]struct {
		data     any
		wantPath string
	}{
		"valid": {
			data: map[string]any{
				"table":      map[string]any{"pageSize": 10},
				"highlights": []any{map[string]any{"match": "true"}},
			},
		},
		"missing root field": {
			data:     map[string]any{},
			wantPath: "$",
		},
		"nested minimum": {
			data:     map[string]any{"table": map[string]any{"pageSize": 0}},
			wantPath: "$.table.pageSize",
		},
		"wrong type in array item": {
			data: map[string]any{
				"table": map[string]any{},
				"highlights": []any{
					map[string]any{"match": "true"},
					map[string]any{"match": 5},
				},
			},
			wantPath: "$.highlights[1].match",
		},
		"missing field in array item": {
			data: map[string]any{
				"table":      map[string]any{},
				"highlights": []any{map[string]any{"name": "x"}},
			},
			wantPath: "$.highlights[0]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validator.Validate(tc.data)
			if tc.wantPath == "" {
				require.NoError(t, err)

				return
			}

			var verr *yaml.Error
			require.ErrorAs(t, err, &verr)
			require.NotNil(t, verr.Path)
			assert.Equal(t, tc.wantPath, verr.Path.String())
		})
	}
}
