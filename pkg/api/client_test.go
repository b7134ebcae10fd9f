package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/leads/pkg/api"
	"github.com/macropower/leads/pkg/customer"
)

func newServer(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := api.NewClient(srv.URL + "/api")
	require.NoError(t, err)

	return c
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := api.NewClient("ftp://example.com")
	require.Error(t, err)

	c, err := api.NewClient("https://example.com/api/")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/api", c.BaseURL())
}

func TestListPage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		check   func(t *testing.T, p *customer.Page)
		body    string
		wantErr error
		status  int
	}{
		"valid envelope": {
			status: http.StatusOK,
			body: `{"success":true,"data":[{"id":1,"nomeCompleto":"Ana","adtsAtual":31.5}],
				"pagination":{"page":2,"limit":10,"total":11,"totalPages":2}}`,
			check: func(t *testing.T, p *customer.Page) {
				t.Helper()

				require.Len(t, p.Customers, 1)
				assert.Equal(t, "Ana", p.Customers[0].FullName)
				assert.InDelta(t, 31.5, p.Customers[0].ADTS, 0.001)
				assert.Equal(t, 2, p.Pagination.Page)
				assert.Equal(t, 2, p.Pagination.TotalPages)
			},
		},
		"derives total pages": {
			status: http.StatusOK,
			body:   `{"success":true,"data":[],"pagination":{"page":1,"limit":10,"total":42}}`,
			check: func(t *testing.T, p *customer.Page) {
				t.Helper()

				assert.Equal(t, 5, p.Pagination.TotalPages)
			},
		},
		"missing pagination": {
			status:  http.StatusOK,
			body:    `{"success":true,"data":[]}`,
			wantErr: api.ErrMalformed,
		},
		"bare array": {
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: api.ErrMalformed,
		},
		"unsuccessful envelope": {
			status:  http.StatusOK,
			body:    `{"success":false,"message":"database offline"}`,
			wantErr: api.ErrServer,
		},
		"server error": {
			status:  http.StatusInternalServerError,
			body:    `{"message":"boom"}`,
			wantErr: api.ErrServer,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/customers", r.URL.Path)
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.Equal(t, "10", r.URL.Query().Get("limit"))
				assert.Equal(t, "ana", r.URL.Query().Get("search"))
				assert.False(t, r.URL.Query().Has("status"))
				assert.NotEmpty(t, r.Header.Get(api.RequestIDHeader))

				respond(w, tc.status, tc.body)
			})

			p, err := c.ListPage(t.Context(), 2, 10, customer.Filters{Search: "ana"})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			tc.check(t, p)
		})
	}
}

func TestListCustomers(t *testing.T) {
	t.Parallel()

	hasLawsuits := true

	tests := map[string]string{
		"bare":     `[{"id":1},{"id":2}]`,
		"envelope": `{"success":true,"data":[{"id":1},{"id":2}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "B", q.Get("letraAtual"))
				assert.Equal(t, "true", q.Get("possuiProcessos"))
				assert.Equal(t, "2020", q.Get("anoIngressoMin"))
				assert.False(t, q.Has("anoIngressoMax"))
				assert.False(t, q.Has("search"))

				respond(w, http.StatusOK, body)
			})

			got, err := c.ListCustomers(t.Context(), customer.Filters{
				Letter:      "B",
				HasLawsuits: &hasLawsuits,
				YearMin:     2020,
			})
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 2, got[1].ID)
		})
	}
}

func TestCustomerCRUD(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/customers/7":
			respond(w, http.StatusOK, `{"id":7,"nomeCompleto":"Bruno"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/customers/8":
			respond(w, http.StatusNotFound, `{"message":"customer not found"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/customers":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			b, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Contains(t, string(b), `"nomeCompleto":"Carla"`)

			respond(w, http.StatusCreated, `{"success":true,"data":{"id":9,"nomeCompleto":"Carla"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/customers/7":
			b, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"nivel":"III"}`, string(b))

			respond(w, http.StatusOK, `{"id":7,"nomeCompleto":"Bruno","nivel":"III"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/customers/7":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			respond(w, http.StatusConflict, `{"error":"has open lawsuits"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := t.Context()

	got, err := c.GetCustomer(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Bruno", got.FullName)

	_, err = c.GetCustomer(ctx, 8)
	require.ErrorIs(t, err, api.ErrNotFound)
	require.ErrorIs(t, err, api.ErrServer)
	assert.Contains(t, err.Error(), "customer not found")

	created, err := c.CreateCustomer(ctx, &customer.CreateRequest{
		FullName: "Carla",
		Email:    "carla@example.com",
		Letter:   "A",
		Level:    "I",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)

	_, err = c.CreateCustomer(ctx, &customer.CreateRequest{FullName: "No Email"})
	require.ErrorIs(t, err, customer.ErrInvalid)

	level := "III"
	updated, err := c.UpdateCustomer(ctx, 7, &customer.UpdateRequest{Level: &level})
	require.NoError(t, err)
	assert.Equal(t, "III", updated.Level)

	require.NoError(t, c.DeleteCustomer(ctx, 7))

	err = c.DeleteCustomer(ctx, 10)
	require.ErrorIs(t, err, api.ErrServer)
	assert.Contains(t, err.Error(), "has open lawsuits")
}

func TestStats(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/customers/stats/total":
			respond(w, http.StatusOK, `{"success":true,"data":{"total":142}}`)
		case "/api/customers/stats/daily":
			respond(w, http.StatusOK, `{"data":[{"day":"Sun","count":3},{"day":"Mon","count":5}]}`)
		case "/api/customers/stats/letters":
			respond(w, http.StatusOK, `{"data":[{"letter":"A","count":12}]}`)
		case "/api/customers/stats/levels":
			respond(w, http.StatusOK, `{"success":true}`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := t.Context()

	total, err := c.TotalCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 142, total)

	daily, err := c.DailyCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []customer.DailyCount{{Day: "Sun", Count: 3}, {Day: "Mon", Count: 5}}, daily)

	letters, err := c.LetterCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []customer.LetterCount{{Letter: "A", Count: 12}}, letters)

	_, err = c.LevelCounts(ctx)
	require.ErrorIs(t, err, api.ErrMalformed)
}

func TestNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := api.NewClient(url)
	require.NoError(t, err)

	_, err = c.TotalCustomers(t.Context())
	require.ErrorIs(t, err, api.ErrNetwork)
}

func TestRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			respond(w, http.StatusServiceUnavailable, `{}`)

			return
		}

		respond(w, http.StatusOK, `{"data":{"total":5}}`)
	}))
	t.Cleanup(srv.Close)

	c, err := api.NewClient(srv.URL, api.WithRetries(3))
	require.NoError(t, err)

	total, err := c.TotalCustomers(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		respond(w, http.StatusBadRequest, `{"message":"bad filter"}`)
	}))
	t.Cleanup(srv.Close)

	c, err := api.NewClient(srv.URL, api.WithRetries(3))
	require.NoError(t, err)

	_, err = c.TotalCustomers(t.Context())
	require.ErrorIs(t, err, api.ErrServer)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}

		respond(w, http.StatusOK, `{"data":{"total":1}}`)
	})

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	_, err := c.TotalCustomers(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Contains(t, r.Header.Get("User-Agent"), "leads/")
		respond(w, http.StatusOK, `{"data":{"total":1}}`)
	}))
	t.Cleanup(srv.Close)

	c, err := api.NewClient(srv.URL,
		api.WithHeaders(map[string]string{"X-Api-Key": "secret"}),
		api.WithTimeout(time.Second),
	)
	require.NoError(t, err)

	_, err = c.TotalCustomers(t.Context())
	require.NoError(t, err)
}
