package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerUI(t *testing.T) {
	t.Run("fichier absent : pas de middleware, pas de panique", func(t *testing.T) {
		h := swaggerUI(filepath.Join(t.TempDir(), "swagger.json"), "GeStock API")
		assert.Nil(t, h)
	})

	t.Run("fichier présent : middleware monté", func(t *testing.T) {
		spec := filepath.Join(t.TempDir(), "swagger.json")
		content := `{"swagger":"2.0","info":{"title":"GeStock API","version":"1.0"},"paths":{}}`
		require.NoError(t, os.WriteFile(spec, []byte(content), 0o600))

		h := swaggerUI(spec, "GeStock API")
		assert.NotNil(t, h)
	})
}
