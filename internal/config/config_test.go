package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"port": 9000,
		"database_url": "postgres://localhost/oneview",
		"top_k": 5,
		"allow_origins": ["http://localhost:5173"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/oneview", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowOrigins)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/oneview")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOW_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("ENABLE_EMBEDDINGS", "true")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env/oneview", cfg.DatabaseURL)
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
	assert.True(t, cfg.EnableEmbeddings)
}

func TestFromEnv_EmbeddingsFlagVariants(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	for _, v := range []string{"1", "true", "YES"} {
		t.Setenv("ENABLE_EMBEDDINGS", v)
		assert.True(t, FromEnv().EnableEmbeddings, "value %q", v)
	}
	for _, v := range []string{"", "0", "false", "off"} {
		t.Setenv("ENABLE_EMBEDDINGS", v)
		assert.False(t, FromEnv().EnableEmbeddings, "value %q", v)
	}
}

func TestMergeWithDefaults_FillsEmptyFields(t *testing.T) {
	cfg := &Config{Port: 9000}
	merged := cfg.MergeWithDefaults(Config{
		DatabaseURL: "postgres://file/oneview",
		Port:        8001,
		TopK:        20,
	})

	assert.Equal(t, 9000, merged.Port, "explicit value wins over defaults")
	assert.Equal(t, "postgres://file/oneview", merged.DatabaseURL)
	assert.Equal(t, 20, merged.TopK)
	assert.Equal(t, []string{DefaultAllowOrigin}, merged.AllowOrigins)
}

func TestMergeWithDefaults_BuiltinFallbacks(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultTopK, merged.TopK)
	assert.Equal(t, []string{DefaultAllowOrigin}, merged.AllowOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Port: 8000, TopK: 10}, false},
		{"port too large", Config{Port: 70000}, true},
		{"negative port", Config{Port: -1}, true},
		{"negative top_k", Config{Port: 8000, TopK: -1}, true},
		{"embeddings without key", Config{Port: 8000, EnableEmbeddings: true}, true},
		{"embeddings with key", Config{Port: 8000, EnableEmbeddings: true, APIKey: "k"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
