package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTemp runs the default Load first so the sync.Once cannot clobber the
// values written by the explicit file load afterwards.
func loadTemp(t *testing.T, appJSON, dotEnv string) {
	t.Helper()
	_ = Load()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")
	if appJSON != "" {
		require.NoError(t, os.WriteFile(jsonPath, []byte(appJSON), 0o644))
	}
	if dotEnv != "" {
		require.NoError(t, os.WriteFile(envPath, []byte(dotEnv), 0o644))
	}
	require.NoError(t, loadFromFiles(jsonPath, envPath))

	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})
}

func TestDefaults(t *testing.T) {
	loadTemp(t, "", "")

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
	assert.Equal(t, "/graphql", GraphQLPath())
	assert.Equal(t, 30*time.Second, CacheTTL())
	assert.False(t, AuthRequired())
	assert.Equal(t, int64(4<<20), MaxBodyBytes())
	assert.Equal(t, []string{"*"}, CORSAllowedOrigins())
}

func TestCORSAllowedOriginsList(t *testing.T) {
	loadTemp(t, "", "CORS_ALLOWED_ORIGINS=https://a.example, ,https://b.example\n")

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, CORSAllowedOrigins())
}

func TestDotEnvOverridesJSON(t *testing.T) {
	loadTemp(t,
		`{"db_driver": "postgres", "app_port": "9000", "auth_required": true}`,
		"# comment\nAPP_PORT=9100\nGRAPHQL_PATH=api/graphql\nCACHE_TTL=\"1m\"\n",
	)

	assert.Equal(t, "postgres", DatabaseDriver())
	assert.Equal(t, defaultPostgresDSN, DatabaseDSN())
	assert.Equal(t, "9100", AppPort())
	assert.Equal(t, "/api/graphql", GraphQLPath())
	assert.Equal(t, time.Minute, CacheTTL())
	assert.True(t, AuthRequired())
}

func TestEnvironmentWins(t *testing.T) {
	t.Setenv("DATABASE_DSN", "file:env.db")
	loadTemp(t, `{"DATABASE_DSN": "file:json.db"}`, "")

	assert.Equal(t, "file:env.db", DatabaseDSN())
}

func TestUnknownDriverFallsBack(t *testing.T) {
	loadTemp(t, "", "DB_DRIVER=oracle\n")

	assert.Equal(t, "sqlite", DatabaseDriver())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	loadTemp(t, "", "CACHE_TTL=soon\nMAX_BODY_BYTES=-1\nRATE_LIMIT_PER_MINUTE=lots\n")

	assert.Equal(t, defaultCacheTTL, CacheTTL())
	assert.Equal(t, int64(defaultMaxBodyBytes), MaxBodyBytes())
	assert.Equal(t, defaultRateLimit, RateLimitPerMinute())
}

func TestMalformedJSON(t *testing.T) {
	_ = Load()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	err := loadFromFiles(path, filepath.Join(dir, ".env"))
	assert.Error(t, err)
}
