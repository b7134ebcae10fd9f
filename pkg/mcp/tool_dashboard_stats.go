package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/leads/pkg/customer"
	"github.com/macropower/leads/pkg/stats"
)

// DashboardStatsParams defines parameters for the dashboard_stats tool.
type DashboardStatsParams struct{}

// DashboardStatsResult contains the dashboard statistics. Sections that
// failed to load are named in Errors and carry fallback values.
type DashboardStatsResult struct {
	Message  string                 `json:"message"`
	Errors   []string               `json:"errors,omitempty"`
	Daily    []customer.DailyCount  `json:"daily"`
	Letters  []customer.LetterCount `json:"letters"`
	Levels   []customer.LevelCount  `json:"levels"`
	Total    int                    `json:"total"`
	NewToday int                    `json:"newToday"`
}

var sections = []stats.Section{
	stats.SectionTotal,
	stats.SectionDaily,
	stats.SectionLetters,
	stats.SectionLevels,
}

func (s *Server) handleDashboardStats(
	ctx context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[DashboardStatsParams],
) (*mcp.CallToolResultFor[DashboardStatsResult], error) {
	r := s.stats.Load(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	return createDashboardStatsResult(r), nil
}

// createDashboardStatsResult creates the MCP tool result from a stats result.
func createDashboardStatsResult(r *stats.Result) *mcp.CallToolResultFor[DashboardStatsResult] {
	st := r.Stats

	result := DashboardStatsResult{
		Total:    st.Total,
		NewToday: st.NewToday,
		Daily:    nonNil(st.Daily),
		Letters:  nonNil(st.Letters),
		Levels:   nonNil(st.Levels),
	}

	for _, sec := range sections {
		if r.Failed(sec) {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sec, r.Errors[sec]))
		}
	}

	result.Message = fmt.Sprintf("%d customers in total, %d new today.", st.Total, st.NewToday)
	if len(result.Errors) > 0 {
		result.Message += fmt.Sprintf(" %d of %d sections failed to load.", len(result.Errors), len(sections))
	}

	return &mcp.CallToolResultFor[DashboardStatsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
