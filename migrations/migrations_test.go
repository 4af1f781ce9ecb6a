package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(FS, "*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups), "every up migration needs a down")

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(FS, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestInitSchemaConstraints(t *testing.T) {
	raw, err := fs.ReadFile(FS, "000001_init.up.sql")
	require.NoError(t, err)
	schema := string(raw)

	assert.Contains(t, schema, "carts_one_active_per_session")
	assert.Contains(t, schema, "WHERE status = 'ACTIVE'")
	assert.Contains(t, schema, "CHECK (quantity >= 1)")
	assert.Contains(t, schema, "CHECK (balance >= 0)")
	assert.Contains(t, schema, "PRIMARY KEY (cart_id, item_id)")
}
