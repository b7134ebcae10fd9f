package mcp

import "github.com/modelcontextprotocol/go-sdk/jsonschema"

const (
	name         = "leads"
	instructions = `MCP Server 'leads' gives read access to the customers and leads stored in the CRM backend.

When to use these tools:
- Looking up a customer by name, email, or tier
- Summarizing the customer base (totals, new customers today, tier distribution)
- Checking the details of a single customer before suggesting a change

REQUIRED workflow:
1. Use 'list_customers' to find customers. Narrow the listing with 'search', 'letter', or 'level' rather than paging through everything.
2. STOP and READ the output. Customer ids are only valid if they appear in a listing.
3. Use 'get_customer' with an EXACT id from 'list_customers' output to retrieve the full record.
4. Use 'dashboard_stats' for aggregate questions. Sections listed under 'errors' could not be loaded and show fallback values.
`

	// Listings longer than this are cut to keep tool output readable.
	maxLimit = 100
)

func newCustomerIDSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: "The id of the customer, exactly as returned by list_customers.",
	}
}

// truncateString truncates a string to maxLen characters with ellipsis if needed.
func truncateString(str string, maxLen int) string {
	if len(str) > maxLen {
		return str[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return str
}
