package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/leads/pkg/customer"
)

// ListCustomersParams defines parameters for the list_customers tool.
type ListCustomersParams struct {
	Search string `json:"search,omitempty"`
	Letter string `json:"letter,omitempty"`
	Level  string `json:"level,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ListCustomersResult contains one page of customers.
type ListCustomersResult struct {
	Message    string            `json:"message"`
	Customers  []CustomerSummary `json:"customers"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Total      int               `json:"total"`
}

// CustomerSummary is the subset of a customer shown in listings.
type CustomerSummary struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Letter      string  `json:"letter"`
	Level       string  `json:"level"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	ID          int     `json:"id"`
	ADTS        float64 `json:"adts"`
	HasLawsuits bool    `json:"hasLawsuits"`
}

func (s *Server) handleListCustomers(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListCustomersParams],
) (*mcp.CallToolResultFor[ListCustomersResult], error) {
	args := params.Arguments

	page := max(args.Page, 1)

	limit := args.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	limit = min(limit, maxLimit)

	p, err := s.source.ListPage(ctx, page, limit, customer.Filters{
		Search: args.Search,
		Letter: args.Letter,
		Level:  args.Level,
	})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	return createListCustomersResult(p), nil
}

// createListCustomersResult creates the MCP tool result from a page.
func createListCustomersResult(p *customer.Page) *mcp.CallToolResultFor[ListCustomersResult] {
	info := p.Pagination

	result := ListCustomersResult{
		Customers:  make([]CustomerSummary, 0, len(p.Customers)),
		Page:       info.Page,
		TotalPages: info.TotalPages,
		Total:      info.Total,
	}

	for i := range p.Customers {
		result.Customers = append(result.Customers, summarize(&p.Customers[i]))
	}

	if info.Total == 0 {
		result.Message = "No customers found."
	} else {
		result.Message = fmt.Sprintf("Showing %d of %d customers (page %d of %d).",
			len(result.Customers), info.Total, info.Page, info.TotalPages)
	}

	return &mcp.CallToolResultFor[ListCustomersResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}
}

func summarize(c *customer.Customer) CustomerSummary {
	s := CustomerSummary{
		ID:          c.ID,
		Name:        c.FullName,
		Email:       c.Email,
		Letter:      c.Letter,
		Level:       c.Level,
		ADTS:        c.ADTS,
		HasLawsuits: c.HasLawsuits,
	}
	if !c.CreatedAt.IsZero() {
		s.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	}

	return s
}
