package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/leads/pkg/api"
	"github.com/macropower/leads/pkg/yaml"
)

const maxYAMLLength = 4000

// GetCustomerParams defines parameters for the get_customer tool.
type GetCustomerParams struct {
	ID int `json:"id"`
}

// GetCustomerResult contains the result of getting a single customer.
type GetCustomerResult struct {
	Customer *CustomerSummary `json:"customer,omitempty"`
	Message  string           `json:"message"`
	YAML     string           `json:"yaml,omitempty"`
	Found    bool             `json:"found"`
}

func (s *Server) handleGetCustomer(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[GetCustomerParams],
) (*mcp.CallToolResultFor[GetCustomerResult], error) {
	id := params.Arguments.ID

	c, err := s.source.GetCustomer(ctx, id)
	if errors.Is(err, api.ErrNotFound) {
		return createGetCustomerResult(GetCustomerResult{}, id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode customer %d: %w", id, err)
	}

	summary := summarize(c)

	return createGetCustomerResult(GetCustomerResult{
		Found:    true,
		Customer: &summary,
		YAML:     truncateString(string(b), maxYAMLLength),
	}, id), nil
}

// createGetCustomerResult creates the MCP tool result from GetCustomerResult.
func createGetCustomerResult(result GetCustomerResult, id int) *mcp.CallToolResultFor[GetCustomerResult] {
	result.Message = formatCustomerMessage(result, id)

	content := []mcp.Content{&mcp.TextContent{Text: result.Message}}
	if result.YAML != "" {
		content = append(content, &mcp.TextContent{Text: result.YAML})
	}

	return &mcp.CallToolResultFor[GetCustomerResult]{
		Content:           content,
		StructuredContent: result,
	}
}

func formatCustomerMessage(result GetCustomerResult, id int) string {
	if result.Found {
		return fmt.Sprintf("Found customer #%d (%s).", id, result.Customer.Name)
	}

	return fmt.Sprintf(
		"INVALID INPUT ERROR: Customer #%d not found. Use an EXACT id from the list_customers tool.",
		id,
	)
}
