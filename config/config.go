// Package config carries the settings shared by the site maintenance
// commands.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults matching the published site.
const (
	DefaultArchivePath = "data/archives.json"
	DefaultUser        = "FlukieL"
	DefaultPlaylistURL = "https://vkvideo.ru/playlist/-230491618_3"
	DefaultSiteRoot    = "."
	DefaultPort        = 8000

	// DefaultPath is where the commands look for a config file.
	DefaultPath = "orangeterry.yaml"
)

// Config holds the settings the maintenance commands share.
type Config struct {
	ArchivePath  string `yaml:"archive_path"`
	MixcloudUser string `yaml:"mixcloud_user"`
	HearthisUser string `yaml:"hearthis_user"`
	PlaylistURL  string `yaml:"vk_playlist_url"`
	SiteRoot     string `yaml:"site_root"`
	Port         int    `yaml:"port"`

	Images ImagesConfig `yaml:"images"`
}

// ImagesConfig points at the artwork the image commands read and the
// directories they write into.
type ImagesConfig struct {
	FaviconSource string `yaml:"favicon_source"`
	FaviconDir    string `yaml:"favicon_dir"`
	LogoSource    string `yaml:"logo_source"`
	LogoDir       string `yaml:"logo_dir"`
}

// Default returns the configuration the published site uses.
func Default() *Config {
	return &Config{
		ArchivePath:  DefaultArchivePath,
		MixcloudUser: DefaultUser,
		HearthisUser: DefaultUser,
		PlaylistURL:  DefaultPlaylistURL,
		SiteRoot:     DefaultSiteRoot,
		Port:         DefaultPort,
		Images: ImagesConfig{
			FaviconSource: "assets/icon.png",
			FaviconDir:    ".",
			LogoSource:    "assets/logo.png",
			LogoDir:       "assets/logos",
		},
	}
}

// Load reads the YAML config at path, leaving defaults in place for
// any key the file does not set. A missing file is not an error; the
// caller gets the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv pulls a .env file into the process environment when one
// exists in the working directory. Reports whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// VKAccessToken returns the VK API token. Tokens only ever come from
// the environment, never the config file.
func VKAccessToken() string {
	return os.Getenv("VK_ACCESS_TOKEN")
}
