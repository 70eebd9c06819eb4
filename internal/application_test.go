package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/knotmosaic/internal/config"
)

func TestNewGameRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory store", func(t *testing.T) {
		repo, closeRepo, err := newGameRepository(ctx, &config.Config{Store: config.StoreMemory})

		require.NoError(t, err)
		assert.NotNil(t, repo)
		assert.NoError(t, closeRepo())
	})

	t.Run("Redis store needs an address", func(t *testing.T) {
		_, _, err := newGameRepository(ctx, &config.Config{Store: config.StoreRedis})

		require.ErrorIs(t, err, ErrAddrNotFound)
	})

	t.Run("Unknown store", func(t *testing.T) {
		_, _, err := newGameRepository(ctx, &config.Config{Store: "sqlite"})

		require.ErrorIs(t, err, ErrUnknownStorage)
	})
}
