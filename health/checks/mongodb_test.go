package checks

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleme-io/pleme-health/health"
)

func TestMongoDB(t *testing.T) {
	t.Run("client creation failure", func(t *testing.T) {
		checker := MongoDB("http://not-mongo")

		first := checker.Check(context.Background())
		second := checker.Check(context.Background())

		assert.Equal(t, health.StatusUnhealthy, first.Status)
		assert.Contains(t, first.Message, "mongodb client creation failed")
		assert.Equal(t, first, second)
		assert.NoError(t, checker.Close())
	})

	t.Run("connection failure", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		ln.Close()

		checker := MongoDB("mongodb://" + addr + "/?serverSelectionTimeoutMS=200&connectTimeoutMS=200")
		defer checker.Close()

		result := checker.Check(context.Background())

		assert.Equal(t, health.StatusUnhealthy, result.Status)
		assert.Contains(t, result.Message, "mongodb connection failed")
	})
}
