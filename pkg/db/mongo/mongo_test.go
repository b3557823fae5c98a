package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapi/pkg/db/mongo"
)

func TestNew(t *testing.T) {
	t.Run("invalid uri", func(t *testing.T) {
		db, err := mongo.New(context.Background(), mongo.Config{URI: "not-a-mongo-uri", Database: "notes"})

		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), mongo.ErrConnect)
	})

	t.Run("unreachable server", func(t *testing.T) {
		db, err := mongo.New(context.Background(), mongo.Config{
			URI:            "mongodb://127.0.0.1:1/?directConnection=true",
			Database:       "notes",
			ConnectTimeout: 200 * time.Millisecond,
		})

		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), mongo.ErrPing)
	})
}
