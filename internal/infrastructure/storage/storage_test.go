package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	name := ObjectName("listings", "image/webp", true, now)
	assert.True(t, strings.HasPrefix(name, "public/listings/"))
	assert.True(t, strings.HasSuffix(name, "-20240301123000.webp"))

	name = ObjectName("slips", "image/png", false, now)
	assert.True(t, strings.HasPrefix(name, "private/slips/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	name = ObjectName("public/avatars", "text/plain", false, now)
	assert.True(t, strings.HasPrefix(name, "public/avatars/"))
	assert.True(t, strings.HasSuffix(name, ".bin"))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	url, err := m.UploadFile(ctx, strings.NewReader("slip-bytes"), "image/jpeg", "slips", false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory://private/slips/"))

	data, ok := m.Object(url)
	require.True(t, ok)
	assert.Equal(t, "slip-bytes", string(data))

	require.NoError(t, m.DeleteFile(ctx, url))
	_, ok = m.Object(url)
	assert.False(t, ok)
	assert.Error(t, m.DeleteFile(ctx, url))
}
