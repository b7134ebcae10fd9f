package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/macropower/leads/pkg/customer"
)

const statsPath = customersPath + "/stats"

// TotalCustomers returns the total number of customers.
func (c *Client) TotalCustomers(ctx context.Context) (int, error) {
	var data struct {
		Total *int `json:"total"`
	}

	err := c.getStats(ctx, "/total", &data)
	if err != nil {
		return 0, err
	}
	if data.Total == nil {
		return 0, malformed("stats/total: missing total")
	}

	return *data.Total, nil
}

// DailyCounts returns the customers created per day over the last week.
func (c *Client) DailyCounts(ctx context.Context) ([]customer.DailyCount, error) {
	var data []customer.DailyCount

	err := c.getStats(ctx, "/daily", &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// LetterCounts returns the customers per letter tier.
func (c *Client) LetterCounts(ctx context.Context) ([]customer.LetterCount, error) {
	var data []customer.LetterCount

	err := c.getStats(ctx, "/letters", &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// LevelCounts returns the customers per level tier.
func (c *Client) LevelCounts(ctx context.Context) ([]customer.LevelCount, error) {
	var data []customer.LevelCount

	err := c.getStats(ctx, "/levels", &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// getStats fetches a stats endpoint, which always wraps its payload in an
// envelope.
func (c *Client) getStats(ctx context.Context, sub string, v any) error {
	path := statsPath + sub

	env := &envelope{}

	err := c.do(ctx, http.MethodGet, path, nil, nil, env)
	if err != nil {
		return err
	}

	if env.failed() {
		return unsuccessful(http.MethodGet, path, env)
	}
	if env.Data == nil {
		return malformed("%s: missing data", path)
	}

	err = json.Unmarshal(env.Data, v)
	if err != nil {
		return malformed("%s: decode data: %v", path, err)
	}

	return nil
}
