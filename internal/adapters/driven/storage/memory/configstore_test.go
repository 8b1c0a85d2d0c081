package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("api.base_url", "http://localhost:9000"))

	val, ok := store.Get("api.base_url")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:9000", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("str", "value"))
	require.NoError(t, store.Set("int", 30))
	require.NoError(t, store.Set("int64", int64(45)))
	require.NoError(t, store.Set("float", 2.5))

	tests := []struct {
		key       string
		wantStr   string
		wantInt   int
		wantFloat float64
	}{
		{key: "str", wantStr: "value"},
		{key: "int", wantInt: 30, wantFloat: 30},
		{key: "int64", wantInt: 45, wantFloat: 45},
		{key: "float", wantInt: 2, wantFloat: 2.5},
		{key: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.wantStr, store.GetString(tt.key))
			assert.Equal(t, tt.wantInt, store.GetInt(tt.key))
			assert.InDelta(t, tt.wantFloat, store.GetFloat(tt.key), 0.0001)
		})
	}
}

func TestConfigStore_Unset(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("storage.backend", "file"))

	require.NoError(t, store.Unset("storage.backend"))
	_, ok := store.Get("storage.backend")
	assert.False(t, ok)

	// Unsetting a missing key is not an error.
	require.NoError(t, store.Unset("storage.backend"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrent(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("api.timeout_seconds", n)
			_ = store.GetInt("api.timeout_seconds")
			_ = store.GetFloat("api.timeout_seconds")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("api.timeout_seconds")
	assert.True(t, ok)
}
