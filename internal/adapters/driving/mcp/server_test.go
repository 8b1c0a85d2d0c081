package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil profile service returns error", func(t *testing.T) {
		ports := &Ports{Results: &mockResultSet{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingProfileService)
	})

	t.Run("nil result set returns error", func(t *testing.T) {
		ports := &Ports{Profile: &mockProfileService{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingResultSet)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Profile: &mockProfileService{},
			Results: &mockResultSet{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports returns error", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingProfileService)
	})

	t.Run("settings are optional", func(t *testing.T) {
		ports := &Ports{
			Profile: &mockProfileService{},
			Results: &mockResultSet{},
		}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Profile:  &mockProfileService{},
			Results:  &mockResultSet{},
			Settings: &mockSettingsService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Profile: &mockProfileService{}, Results: &mockResultSet{}})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- server.serve(ctx, ln) }()

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServer_RunHTTP_BadAddress(t *testing.T) {
	server, err := NewServer(&Ports{Profile: &mockProfileService{}, Results: &mockResultSet{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "127.0.0.1:-1")
	assert.Error(t, err)
}
