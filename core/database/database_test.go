package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen(t *testing.T) {
	t.Run("In-Memory", func(t *testing.T) {
		db, err := Open(Config{Path: ":memory:"})
		assert.NoError(t, err)
		assert.NotNil(t, db)

		// Handle should be usable
		err = db.Exec("CREATE TABLE probe (id INTEGER PRIMARY KEY)").Error
		assert.NoError(t, err)
	})

	t.Run("Creates Parent Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "cache", "missions.db")
		db, err := Open(Config{Path: path})
		assert.NoError(t, err)
		assert.NotNil(t, db)
		assert.FileExists(t, path)
	})

	t.Run("Invalid Path", func(t *testing.T) {
		// A directory where the file should be forces the open to fail.
		dir := t.TempDir()
		db, err := Open(Config{Path: dir})
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}
