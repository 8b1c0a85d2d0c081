package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for codeg resources.
	uriScheme = "codeg://"

	profileURI = uriScheme + "profile"
	resultsURI = uriScheme + "results"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         profileURI,
		Name:        "profile",
		Description: "The stored company profile",
		MIMEType:    "application/json",
	}, s.handleProfileResource)

	s.server.AddResource(&mcp.Resource{
		URI:         resultsURI,
		Name:        "results",
		Description: "Results of the last analysis, with any deep analyses",
		MIMEType:    "application/json",
	}, s.handleResultsResource)
}

// handleProfileResource returns the stored company profile.
func (s *Server) handleProfileResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(s.ports.Profile.Get(ctx), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling profile: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

// handleResultsResource returns the current result set.
func (s *Server) handleResultsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(outputOf(s.ports.Results.Snapshot()), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling results: %w", err)
	}
	return jsonResource(req.Params.URI, data), nil
}

func jsonResource(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
