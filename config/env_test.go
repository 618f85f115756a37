package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFiles_MergeOrder(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"app_port":"9000","data_dir":"from-json","ignored":42}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nDATA_DIR=\"from-env\"\nGEMINI_MODEL=gemini-pro\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9000", get("APP_PORT", ""))
	assert.Equal(t, "from-env", get("DATA_DIR", ""))
	assert.Equal(t, "gemini-pro", get("GEMINI_MODEL", ""))
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".none")))

	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
	assert.Equal(t, defaultGeminiModel, get("GEMINI_MODEL", ""))
}

func TestGet_FallbackForBlank(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "none.json"), filepath.Join(dir, ".none")))

	assert.Equal(t, "fallback", get("GEMINI_API_KEY", "fallback"))
	assert.Equal(t, "fallback", get("NOT_A_KEY", "fallback"))
}
