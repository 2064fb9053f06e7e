package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, ":3002", cfg.ListenAddr)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "express", cfg.LokiJob)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Origins())
}

func TestLoadServer_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DRIVER=mongo\nMONGO_DATABASE=catalog\nCORS_ORIGINS=http://a.local, http://b.local\n"), 0o600))

	// godotenv.Load sets process env; make sure t.Setenv restores them.
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("CORS_ORIGINS", "")
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("MONGO_DATABASE")
	os.Unsetenv("CORS_ORIGINS")

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "catalog", cfg.MongoDatabase)
	assert.Equal(t, "products", cfg.MongoCollection)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Origins())
}

func TestLoadServer_MissingEnvFileIsFine(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	_, err := LoadServer(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
}

func TestLoadServer_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := LoadServer("")
	assert.ErrorContains(t, err, "sqlite")
}

func TestLoadClient(t *testing.T) {
	t.Setenv("SEARCH_DEBOUNCE", "250ms")
	t.Setenv("WHATSAPP_NUMBER", "911234")

	cfg, err := LoadClient("")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, "911234", cfg.WhatsAppNumber)
	assert.Equal(t, "krushigowrava", cfg.ProjectKey)
}
