package cli_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/internal/cli"
	"github.com/macropower/leads/pkg/customer"
)

const customersPage = `{"success":true,"data":[
	{"id":7,"nomeCompleto":"Maria Oliveira","email":"maria@example.com","letraAtual":"B","nivel":"IV","adtsAtual":22.5},
	{"id":8,"nomeCompleto":"Pedro Santos","email":"pedro@example.com","letraAtual":"G","nivel":"II","adtsAtual":9,"possuiProcessos":true}
],"pagination":{"page":1,"limit":10,"total":2,"totalPages":1}}`

type backend struct {
	requests []string
	mu       sync.Mutex
}

func (b *backend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
}

func (b *backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.requests...)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.record(r)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/customers":
		respond(w, http.StatusOK, customersPage)
	case r.Method == http.MethodGet && r.URL.Path == "/api/customers/7":
		respond(w, http.StatusOK,
			`{"success":true,"data":{"id":7,"nomeCompleto":"Maria Oliveira","email":"maria@example.com","letraAtual":"B","nivel":"IV"}}`)
	case r.Method == http.MethodDelete && r.URL.Path == "/api/customers/7":
		respond(w, http.StatusOK, `{"success":true}`)
	case r.URL.Path == "/api/customers/stats/total":
		respond(w, http.StatusOK, `{"success":true,"data":{"total":142}}`)
	case r.URL.Path == "/api/customers/stats/daily":
		respond(w, http.StatusOK, `{"data":[{"day":"Sun","count":3},{"day":"Mon","count":5}]}`)
	case r.URL.Path == "/api/customers/stats/letters":
		respond(w, http.StatusOK, `{"data":[{"letter":"A","count":12}]}`)
	case r.URL.Path == "/api/customers/stats/levels":
		respond(w, http.StatusInternalServerError, `{"success":false,"message":"boom"}`)
	default:
		respond(w, http.StatusNotFound, `{"success":false,"message":"not found"}`)
	}
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newBackend(t *testing.T) (*backend, string) {
	t.Helper()

	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	return b, srv.URL + "/api"
}

func execute(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--api-url", apiURL,
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--log-level", "error",
	}, args...))

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		b, url := newBackend(t)

		out, err := execute(t, url, "list", "--limit", "10", "--letter", "B", "-o", "json")
		require.NoError(t, err)

		var p customer.Page
		require.NoError(t, json.Unmarshal([]byte(out), &p))
		require.Len(t, p.Customers, 2)
		assert.Equal(t, "Maria Oliveira", p.Customers[0].FullName)
		assert.Equal(t, 2, p.Pagination.Total)

		require.Len(t, b.Requests(), 1)
		assert.Contains(t, b.Requests()[0], "letraAtual=B")
		assert.Contains(t, b.Requests()[0], "limit=10")
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		_, url := newBackend(t)

		out, err := execute(t, url, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "Maria Oliveira")
		assert.Contains(t, out, "Pedro Santos")
		assert.Contains(t, out, "page 1 of 1")
	})

	t.Run("where filter", func(t *testing.T) {
		t.Parallel()

		_, url := newBackend(t)

		out, err := execute(t, url, "list", "--where", "possuiProcessos", "-o", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "Pedro Santos")
		assert.NotContains(t, out, "Maria Oliveira")
	})

	t.Run("invalid where", func(t *testing.T) {
		t.Parallel()

		_, url := newBackend(t)

		_, err := execute(t, url, "list", "--where", "adtsAtual >=")
		require.ErrorContains(t, err, "invalid argument")
	})

	t.Run("invalid has-lawsuits", func(t *testing.T) {
		t.Parallel()

		_, url := newBackend(t)

		_, err := execute(t, url, "list", "--has-lawsuits", "maybe")
		require.ErrorContains(t, err, `invalid argument "maybe" for --has-lawsuits`)
	})

	t.Run("unknown output", func(t *testing.T) {
		t.Parallel()

		b, url := newBackend(t)

		_, err := execute(t, url, "list", "-o", "xml")
		require.ErrorContains(t, err, `unknown output format "xml"`)
		assert.Empty(t, b.Requests())
	})
}

func TestGet(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args    []string
		want    []string
		wantErr string
	}{
		"yaml": {
			args: []string{"get", "7", "-o", "yaml"},
			want: []string{"id: 7", "nomeCompleto: Maria Oliveira"},
		},
		"table": {
			args: []string{"get", "7"},
			want: []string{"Maria Oliveira", "maria@example.com"},
		},
		"not found": {
			args:    []string{"get", "9"},
			wantErr: "get customer 9",
		},
		"invalid id": {
			args:    []string{"get", "abc"},
			wantErr: `invalid argument "abc": customer id must be a positive integer`,
		},
		"missing id": {
			args:    []string{"get"},
			wantErr: "accepts 1 arg(s), received 0",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, url := newBackend(t)

			out, err := execute(t, url, tc.args...)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)

			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	b, url := newBackend(t)

	out, err := execute(t, url, "delete", "7", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "deleted customer #7\n", out)
	assert.Equal(t, []string{"DELETE /api/customers/7"}, b.Requests())
}

func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		_, url := newBackend(t)

		out, err := execute(t, url, "stats", "-o", "json")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.InDelta(t, 142, got["total"], 0.0001)

		errs, ok := got["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, errs, "levels")
		assert.NotContains(t, errs, "total")
	})

	t.Run("strict", func(t *testing.T) {
		t.Parallel()

		_, url := newBackend(t)

		_, err := execute(t, url, "stats", "--strict", "-o", "yaml")
		require.ErrorContains(t, err, "load stats")
	})
}
