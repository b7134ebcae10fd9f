package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/go-querystring/query"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/pagination"
)

const customersPath = "/customers"

type pageQuery struct {
	customer.Filters

	Page  int `url:"page"`
	Limit int `url:"limit"`
}

// ListCustomers returns every customer matching the filters.
func (c *Client) ListCustomers(ctx context.Context, f customer.Filters) ([]customer.Customer, error) {
	q, err := encodeFilters(f)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage

	err = c.do(ctx, http.MethodGet, customersPath, q, nil, &raw)
	if err != nil {
		return nil, err
	}

	var customers []customer.Customer

	env, err := unwrap(raw, &customers)
	if err != nil {
		return nil, err
	}
	if env != nil && env.failed() {
		return nil, unsuccessful(http.MethodGet, customersPath, env)
	}

	return customers, nil
}

// ListPage returns one page of customers matching the filters. The response
// must be a complete envelope carrying both data and pagination.
func (c *Client) ListPage(ctx context.Context, page, limit int, f customer.Filters) (*customer.Page, error) {
	q, err := query.Values(pageQuery{Filters: f, Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	env := &envelope{}

	err = c.do(ctx, http.MethodGet, customersPath, q, nil, env)
	if err != nil {
		return nil, err
	}

	if env.failed() {
		return nil, unsuccessful(http.MethodGet, customersPath, env)
	}
	if env.Success == nil || env.Data == nil || env.Pagination == nil {
		return nil, malformed("paginated listing: missing success, data, or pagination")
	}

	p := &customer.Page{Pagination: *env.Pagination}

	err = json.Unmarshal(env.Data, &p.Customers)
	if err != nil {
		return nil, malformed("decode data: %v", err)
	}

	if p.Pagination.Limit <= 0 {
		p.Pagination.Limit = limit
	}
	if p.Pagination.TotalPages == 0 {
		p.Pagination.TotalPages = pagination.TotalPages(p.Pagination.Total, p.Pagination.Limit)
	}
	if len(p.Customers) > p.Pagination.Limit {
		p.Customers = p.Customers[:p.Pagination.Limit]
	}

	return p, nil
}

// GetCustomer returns the customer with the given id.
func (c *Client) GetCustomer(ctx context.Context, id int) (*customer.Customer, error) {
	return c.customerRequest(ctx, http.MethodGet, customerPath(id), nil)
}

// CreateCustomer validates and creates a customer.
func (c *Client) CreateCustomer(ctx context.Context, req *customer.CreateRequest) (*customer.Customer, error) {
	err := customer.Validate(req)
	if err != nil {
		return nil, err //nolint:wrapcheck // Validation errors are returned as-is.
	}

	return c.customerRequest(ctx, http.MethodPost, customersPath, req)
}

// UpdateCustomer validates and applies a partial update to a customer.
func (c *Client) UpdateCustomer(ctx context.Context, id int, req *customer.UpdateRequest) (*customer.Customer, error) {
	err := customer.Validate(req)
	if err != nil {
		return nil, err //nolint:wrapcheck // Validation errors are returned as-is.
	}

	return c.customerRequest(ctx, http.MethodPut, customerPath(id), req)
}

// DeleteCustomer deletes the customer with the given id.
func (c *Client) DeleteCustomer(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, customerPath(id), nil, nil, nil)
}

func (c *Client) customerRequest(ctx context.Context, method, path string, body any) (*customer.Customer, error) {
	var raw json.RawMessage

	err := c.do(ctx, method, path, nil, body, &raw)
	if err != nil {
		return nil, err
	}

	cust := &customer.Customer{}

	env, err := unwrap(raw, cust)
	if err != nil {
		return nil, err
	}
	if env != nil && env.failed() {
		return nil, unsuccessful(method, path, env)
	}

	return cust, nil
}

func customerPath(id int) string {
	return customersPath + "/" + strconv.Itoa(id)
}

func unsuccessful(method, path string, env *envelope) error {
	msg := env.Message
	if msg == "" {
		msg = "request unsuccessful"
	}

	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: http.StatusOK,
		Message:    msg,
	}
}

// encodeFilters returns the query parameters for f.
func encodeFilters(f customer.Filters) (url.Values, error) {
	v, err := query.Values(f)
	if err != nil {
		return nil, fmt.Errorf("encode filters: %w", err)
	}

	return v, nil
}
