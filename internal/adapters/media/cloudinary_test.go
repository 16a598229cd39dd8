package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCloudinaryStoreRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := NewCloudinaryStore("demo", "", "secret", nil)
	assert.Error(t, err)

	store, err := NewCloudinaryStore("demo", "123456", "secret", nil)
	require.NoError(t, err)
	assert.True(t, store.cld.Config.URL.Secure)
	assert.NoError(t, store.Delete(context.Background(), ""))
}
