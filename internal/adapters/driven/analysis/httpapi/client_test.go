package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}), server
}

func saasWire() *domain.WireProfile {
	p := domain.DefaultCompanyProfile()
	p.Industry = domain.IndustrySaaS
	p.Focus = domain.FocusRD
	return domain.ToWireFormat(p)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{})
	assert.Equal(t, "http://127.0.0.1:8000", c.BaseURL())

	c = NewClient(Config{BaseURL: "http://localhost:9000/"})
	assert.Equal(t, "http://localhost:9000", c.BaseURL())
}

func TestClient_Analyze_Request(t *testing.T) {
	var body map[string]any
	var header http.Header
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, AnalyzePath, r.URL.Path)
		header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Analyze(context.Background(), driven.AnalyzeRequest{
		Profile:  saasWire(),
		Region:   "서울",
		Keywords: []string{"AI", "cloud"},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.Len(t, header.Get(RequestIDHeader), 36)

	profile, ok := body["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SaaS", profile["industry"])
	assert.Equal(t, "R&D Focus", profile["focus"])
	assert.Equal(t, "서울", body["region"])
	assert.Equal(t, []any{"AI", "cloud"}, body["keywords"])
}

func TestClient_Analyze_NullProfile(t *testing.T) {
	var raw string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		raw = string(b)
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Analyze(context.Background(), driven.AnalyzeRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"profile": null}`, raw)
}

func TestClient_Analyze_Responses(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantURLs  []string
		wantErr   bool
		wantScore float64
	}{
		{
			name:      "array",
			body:      `[{"url":"a","title":"A","g_score":77},{"url":"b","title":"B"}]`,
			wantURLs:  []string{"a", "b"},
			wantScore: 77,
		},
		{
			name:      "results object",
			body:      `{"results":[{"url":"a","g_score":12.5}],"total":1}`,
			wantURLs:  []string{"a"},
			wantScore: 12.5,
		},
		{name: "empty array", body: `[]`, wantURLs: []string{}},
		{name: "null", body: `null`, wantURLs: []string{}},
		{name: "object without results", body: `{"items":[]}`, wantErr: true},
		{name: "not a list", body: `"ok"`, wantErr: true},
		{name: "wrong field type", body: `[{"url":"a","g_score":"high"}]`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
		{name: "empty body", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			results, err := client.Analyze(context.Background(), driven.AnalyzeRequest{})
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrRequestFailed)
				assert.Nil(t, results)
				return
			}
			require.NoError(t, err)

			urls := make([]string, 0, len(results))
			for _, r := range results {
				urls = append(urls, r.URL)
			}
			assert.Equal(t, tt.wantURLs, urls)
			if len(results) > 0 {
				assert.InDelta(t, tt.wantScore, results[0].GScore, 0.001)
			}
		})
	}
}

func TestClient_Analyze_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{name: "detail string", status: 400, body: `{"detail":"profile is required"}`, wantDetail: "profile is required"},
		{name: "validation list", status: 422, body: `{"detail":[{"loc":["body"],"msg":"field required"}]}`, wantDetail: "field required"},
		{name: "no detail", status: 500, body: `{"error":"x"}`, wantDetail: "Internal Server Error"},
		{name: "html body", status: 502, body: `<h1>bad gateway</h1>`, wantDetail: "Bad Gateway"},
		{name: "empty detail", status: 503, body: `{"detail":""}`, wantDetail: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			results, err := client.Analyze(context.Background(), driven.AnalyzeRequest{})
			require.ErrorIs(t, err, domain.ErrRequestFailed)
			assert.Nil(t, results)

			var rf *domain.RequestFailedError
			require.True(t, errors.As(err, &rf))
			assert.Equal(t, tt.status, rf.Status)
			assert.Equal(t, tt.wantDetail, rf.Detail)
			assert.Equal(t, "analyze", rf.Op)
		})
	}
}

func TestClient_ErrorStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, RetryMax: 3, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond})

	_, err := client.Analyze(context.Background(), driven.AnalyzeRequest{})
	require.ErrorIs(t, err, domain.ErrRequestFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ConnectionErrorIsRequestFailed(t *testing.T) {
	// Reserve a port, then close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := NewClient(Config{
		BaseURL:      "http://" + addr,
		RetryMax:     1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	})

	_, err = client.Analyze(context.Background(), driven.AnalyzeRequest{})
	require.ErrorIs(t, err, domain.ErrRequestFailed)

	var rf *domain.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Zero(t, rf.Status)
	assert.Contains(t, rf.Detail, "service unreachable")
}

func TestClient_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, driven.AnalyzeRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, domain.ErrRequestFailed)
}

func TestClient_DeepAnalyze(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DeepAnalyzePath, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"summary":"long form","g_score":82,"eligibility":"SMEs under 7 years"}`))
	})

	patch, err := client.DeepAnalyze(context.Background(), driven.DeepAnalyzeRequest{
		URL:     "https://www.bizinfo.go.kr/notice/1",
		Title:   "AI voucher",
		Profile: saasWire(),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://www.bizinfo.go.kr/notice/1", body["url"])
	assert.Equal(t, "AI voucher", body["title"])
	assert.NotNil(t, body["profile"])

	merged := patch.Apply(domain.AnalysisResult{URL: "u", Title: "t", Reasoning: "kept"})
	assert.Equal(t, "long form", merged.Summary)
	assert.InDelta(t, 82.0, merged.GScore, 0.001)
	assert.Equal(t, "SMEs under 7 years", merged.Eligibility)
	assert.Equal(t, "kept", merged.Reasoning)
	assert.Equal(t, "u", merged.URL)
}

func TestClient_DeepAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: 500, body: `{"detail":"model offline"}`},
		{name: "not an object", status: 200, body: `[1,2]`},
		{name: "invalid json", status: 200, body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.DeepAnalyze(context.Background(), driven.DeepAnalyzeRequest{URL: "u"})
			assert.ErrorIs(t, err, domain.ErrRequestFailed)
		})
	}
}

func TestClient_DeepAnalyze_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, DeepRatePerSecond: 5})
	ctx := context.Background()

	started := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.DeepAnalyze(ctx, driven.DeepAnalyzeRequest{URL: "u"})
		require.NoError(t, err)
	}
	// Burst of one at 5/s: the second and third calls wait ~200ms each.
	assert.GreaterOrEqual(t, time.Since(started), 350*time.Millisecond)
}

func TestClient_DeepAnalyze_RateLimitHonoursContext(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", DeepRatePerSecond: 0.001})

	// Drain the single token.
	require.True(t, client.deepLimiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.DeepAnalyze(ctx, driven.DeepAnalyzeRequest{URL: "u"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrRequestFailed)
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "boom", errorDetail([]byte(`{"detail":"boom"}`), 500))
	assert.Equal(t, "Not Found", errorDetail(nil, 404))
	assert.Equal(t, "status 799", errorDetail(nil, 799))
}

func TestRetryConnectionErrors(t *testing.T) {
	ctx := context.Background()

	retry, err := retryConnectionErrors(ctx, nil, errors.New("connection refused"))
	require.NoError(t, err)
	assert.True(t, retry)

	retry, err = retryConnectionErrors(ctx, &http.Response{StatusCode: 503}, nil)
	require.NoError(t, err)
	assert.False(t, retry)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err = retryConnectionErrors(cancelled, nil, errors.New("x"))
	assert.False(t, retry)
	assert.ErrorIs(t, err, context.Canceled)
}
