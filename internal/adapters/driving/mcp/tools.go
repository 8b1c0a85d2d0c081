package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/codeg-cli/internal/adapters/driving/present"
	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

// AnalyzeInput is the input schema for the analyze tool.
type AnalyzeInput struct {
	Region   string   `json:"region,omitempty" jsonschema:"region filter such as 서울; defaults to the configured region"`
	Keywords []string `json:"keywords,omitempty" jsonschema:"extra search keywords"`
}

// AnalyzeOutput is the output schema for the analyze and deep_analyze tools.
type AnalyzeOutput struct {
	Status  string         `json:"status"`
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput represents a single analysed notice.
type ResultOutput struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Agency      string  `json:"agency,omitempty"`
	Date        string  `json:"date,omitempty"`
	GScore      float64 `json:"g_score"`
	Band        string  `json:"band"`
	Summary     string  `json:"summary,omitempty"`
	Eligibility string  `json:"eligibility,omitempty"`
	Reasoning   string  `json:"reasoning,omitempty"`
	Analysis    string  `json:"analysis"`
	Error       string  `json:"error,omitempty"`
}

// DeepAnalyzeInput is the input schema for the deep_analyze tool.
type DeepAnalyzeInput struct {
	URL string `json:"url" jsonschema:"notice URL taken from the analyze results"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze",
		Description: "Find public funding notices that fit the stored company profile",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deep_analyze",
		Description: "Fetch the full analysis of one notice from the last analyze call",
	}, s.handleDeepAnalyze)
}

// handleAnalyze handles the analyze tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	filters := domain.AnalyzeFilters{
		Region:   input.Region,
		Keywords: input.Keywords,
	}
	if filters.Region == "" {
		filters.Region = s.defaultRegion()
	}

	profile := s.ports.Profile.Get(ctx)
	if err := s.ports.Results.RunAnalyze(ctx, profile, filters); err != nil {
		return nil, AnalyzeOutput{}, err
	}
	return nil, outputOf(s.ports.Results.Snapshot()), nil
}

// handleDeepAnalyze handles the deep_analyze tool invocation.
func (s *Server) handleDeepAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeepAnalyzeInput,
) (*mcp.CallToolResult, ResultOutput, error) {
	if input.URL == "" {
		return nil, ResultOutput{}, errors.New("url is required")
	}
	if _, ok := s.ports.Results.Snapshot().Find(input.URL); !ok {
		return nil, ResultOutput{}, fmt.Errorf("%w: %s is not in the current results", domain.ErrNotFound, input.URL)
	}

	if err := s.ports.Results.DeepAnalyze(ctx, input.URL); err != nil {
		return nil, ResultOutput{}, err
	}

	snapshot := s.ports.Results.Snapshot()
	r, ok := snapshot.Find(input.URL)
	if !ok {
		return nil, ResultOutput{}, fmt.Errorf("%w: %s was replaced by a newer analysis", domain.ErrNotFound, input.URL)
	}
	return nil, resultOf(r, snapshot.StateOf(r.URL)), nil
}

func (s *Server) defaultRegion() string {
	if s.ports.Settings == nil {
		return domain.DefaultRegion
	}
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return domain.DefaultRegion
	}
	return settings.Analyze.Region
}

func outputOf(snapshot driving.ResultSnapshot) AnalyzeOutput {
	out := AnalyzeOutput{
		Status:  snapshot.Status,
		Results: make([]ResultOutput, len(snapshot.Results)),
		Count:   len(snapshot.Results),
	}
	for i, r := range snapshot.Results {
		out.Results[i] = resultOf(r, snapshot.StateOf(r.URL))
	}
	return out
}

func resultOf(r domain.AnalysisResult, st domain.EnrichmentState) ResultOutput {
	return ResultOutput{
		URL:         r.URL,
		Title:       present.Line(r.Title),
		Agency:      present.Line(r.Agency),
		Date:        present.Line(r.Date),
		GScore:      r.GScore,
		Band:        string(domain.BandOf(r.GScore)),
		Summary:     present.Text(r.Summary),
		Eligibility: present.Text(r.Eligibility),
		Reasoning:   present.Text(r.Reasoning),
		Analysis:    st.Phase.String(),
		Error:       st.Reason,
	}
}
