package db

import (
	"contact_flow_app_go/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialector(t *testing.T) {
	t.Run("sqlite is the default", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBPath: "test.db"})
		assert.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
	})

	t.Run("postgres", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: "postgres", DatabaseURL: "postgres://u:p@localhost:5432/contato"})
		assert.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("mysql", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: "mysql", DatabaseURL: "u:p@tcp(localhost:3306)/contato?parseTime=true"})
		assert.NoError(t, err)
		assert.Equal(t, "mysql", d.Name())
	})

	t.Run("libsql", func(t *testing.T) {
		d, err := Dialector(&config.Config{DBDriver: "libsql", TursoDatabaseURL: "libsql://contato.turso.io", TursoAuthToken: "tok"})
		assert.NoError(t, err)
		assert.Equal(t, "sqlite", d.Name())
	})

	t.Run("missing urls", func(t *testing.T) {
		for _, driver := range []string{"libsql", "postgres", "mysql"} {
			_, err := Dialector(&config.Config{DBDriver: driver})
			assert.Error(t, err, driver)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Dialector(&config.Config{DBDriver: "oracle"})
		assert.Error(t, err)
	})
}

func TestAutoMigrateWithoutInitialize(t *testing.T) {
	DB = nil
	assert.Error(t, AutoMigrate())
	assert.NoError(t, Close())
}
