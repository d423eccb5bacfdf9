package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryUpMigrationHasDown(t *testing.T) {
	ups, err := fs.Glob(FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := up[:len(up)-len(".up.sql")] + ".down.sql"
		_, err := fs.Stat(FS, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestSeedContainsReferenceRooms(t *testing.T) {
	seed, err := fs.ReadFile(FS, "000002_seed_reference_data.up.sql")
	require.NoError(t, err)

	for _, room := range []string{"'Amaze', 3", "'Beauty', 7", "'Inspire', 12", "'Strive', 20"} {
		assert.Contains(t, string(seed), room)
	}
}
