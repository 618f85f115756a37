package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyAddrDisabled(t *testing.T) {
	s, err := Connect(context.Background(), "", "", "till:")
	require.NoError(t, err)
	assert.False(t, s.Enabled())
}

func TestStore_DisabledIsPermanentMiss(t *testing.T) {
	ctx := context.Background()
	for _, s := range []*Store{nil, {prefix: "x:"}} {
		require.NoError(t, s.Set(ctx, "k", "v", time.Minute))

		var out string
		assert.False(t, s.Get(ctx, "k", &out))
		assert.Empty(t, out)
		assert.NoError(t, s.Forget(ctx, "k"))
		assert.NoError(t, s.Close())
	}
}

func TestConnect_UnreachableReturnsDisabledStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := Connect(ctx, "127.0.0.1:1", "", "till:")
	require.Error(t, err)
	require.NotNil(t, s)
	assert.False(t, s.Enabled())
}
