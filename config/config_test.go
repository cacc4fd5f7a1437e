package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err, "a missing config file is not an error")

	assert.Equal(t, "data/archives.json", cfg.ArchivePath)
	assert.Equal(t, "FlukieL", cfg.MixcloudUser)
	assert.Equal(t, "FlukieL", cfg.HearthisUser)
	assert.Equal(t, "https://vkvideo.ru/playlist/-230491618_3", cfg.PlaylistURL)
	assert.Equal(t, ".", cfg.SiteRoot)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "assets/logos", cfg.Images.LogoDir)
}

func TestLoadOverridesOnlyKeysPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orangeterry.yaml")
	data := `archive_path: /srv/site/archives.json
port: 9000
images:
  logo_dir: static/logos
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/site/archives.json", cfg.ArchivePath)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "static/logos", cfg.Images.LogoDir)
	assert.Equal(t, "FlukieL", cfg.MixcloudUser, "unset keys should keep their defaults")
	assert.Equal(t, "assets/logo.png", cfg.Images.LogoSource, "unset nested keys should keep their defaults")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orangeterry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archive_path: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "a present but unparsable file should fail loudly")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ORANGETERRY_TEST_TOKEN=abc123\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ORANGETERRY_TEST_TOKEN") })

	t.Chdir(dir)

	assert.True(t, LoadDotEnv())
	assert.Equal(t, "abc123", os.Getenv("ORANGETERRY_TEST_TOKEN"))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.False(t, LoadDotEnv(), "no .env file means nothing was loaded")
}

func TestVKAccessToken(t *testing.T) {
	t.Setenv("VK_ACCESS_TOKEN", "vk1.a.secret")
	assert.Equal(t, "vk1.a.secret", VKAccessToken())

	t.Setenv("VK_ACCESS_TOKEN", "")
	assert.Empty(t, VKAccessToken())
}
