package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driving"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleProfileResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &mockResultSet{}, nil)

	result, err := server.handleProfileResource(ctx, makeReadResourceRequest(profileURI))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Equal(t, profileURI, result.Contents[0].URI)
	assert.Contains(t, result.Contents[0].Text, `"industry": "AI/Vision"`)
	assert.Contains(t, result.Contents[0].Text, `"Vision"`)
}

func TestServer_handleResultsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("empty result set", func(t *testing.T) {
		server := newTestServer(t, &mockResultSet{}, nil)

		result, err := server.handleResultsResource(ctx, makeReadResourceRequest(resultsURI))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"count": 0`)
		assert.Contains(t, result.Contents[0].Text, `"results": []`)
	})

	t.Run("includes enrichment state", func(t *testing.T) {
		results := &mockResultSet{snapshot: driving.ResultSnapshot{
			RequestID: 1,
			Results:   []domain.AnalysisResult{{URL: "x"}, {URL: "y"}},
			Enrichment: map[string]domain.EnrichmentState{
				"x": domain.Idle(),
				"y": domain.Failed("HTTP 500"),
			},
		}}
		server := newTestServer(t, results, nil)

		result, err := server.handleResultsResource(ctx, makeReadResourceRequest(resultsURI))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"count": 2`)
		assert.Contains(t, text, `"analysis": "failed"`)
		assert.Contains(t, text, `"error": "HTTP 500"`)
	})
}
