package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibestats/backend/internal/storage"
	"github.com/vibestats/backend/test"
)

// backends returns one instance of every Backend implementation.
func backends(t *testing.T) map[string]storage.Backend {
	sql, err := storage.Connect(test.TmpFile(t))
	require.Nil(t, err)
	t.Cleanup(func() { _ = sql.Close() })

	return map[string]storage.Backend{
		"sqlite": sql,
		"memory": storage.NewMemory(),
	}
}

func TestBackendRoundTrip(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := backend.Get("missing")
			assert.Nil(t, err)
			assert.False(t, ok)

			require.Nil(t, backend.Set("blob", `{"2024-01":{}}`))

			value, ok, err := backend.Get("blob")
			assert.Nil(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"2024-01":{}}`, value)

			// Overwrite wholesale
			require.Nil(t, backend.Set("blob", "{}"))
			value, _, _ = backend.Get("blob")
			assert.Equal(t, "{}", value)

			require.Nil(t, backend.Delete("blob"))
			_, ok, err = backend.Get("blob")
			assert.Nil(t, err)
			assert.False(t, ok)

			// Deleting a missing key is not an error
			assert.Nil(t, backend.Delete("blob"))
		})
	}
}

func TestSQLPing(t *testing.T) {
	sql, err := storage.Connect(test.TmpFile(t))
	require.Nil(t, err)

	assert.Nil(t, sql.Ping())

	require.Nil(t, sql.Close())
	assert.NotNil(t, sql.Ping())
}
