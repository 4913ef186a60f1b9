package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"sortd/internal/scan"
	"sortd/pkg/classify"
)

type Config struct {
	Destination struct {
		Root string `mapstructure:"root"`
	} `mapstructure:"destination"`

	Taxonomy struct {
		File     string `mapstructure:"file"`
		Fallback string `mapstructure:"fallback"`
	} `mapstructure:"taxonomy"`

	Classify struct {
		ExtensionWeight      float64 `mapstructure:"extension_weight"`
		NameKeywordWeight    float64 `mapstructure:"name_keyword_weight"`
		ContentKeywordWeight float64 `mapstructure:"content_keyword_weight"`
		ContentHitCap        int     `mapstructure:"content_hit_cap"`
		SpecificityBonus     float64 `mapstructure:"specificity_bonus"`
		MinConfidence        float64 `mapstructure:"min_confidence"`
	} `mapstructure:"classify"`

	Scan struct {
		SampleBytes int `mapstructure:"sample_bytes"`
		Workers     int `mapstructure:"workers"`
	} `mapstructure:"scan"`

	Commit struct {
		FSTimeoutSeconds int `mapstructure:"fs_timeout_seconds"`
	} `mapstructure:"commit"`

	Server struct {
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"server"`
}

// Load reads configuration from the given file, or from config.yaml in the
// working directory and ~/.config/sortd when path is empty. A missing file
// is fine; defaults and environment variables still apply. SORTD_DEST
// overrides destination.root, and any key can be set via SORTD_<KEY> with
// dots replaced by underscores.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sortd")
	}

	setDefaults(v)

	v.SetEnvPrefix("SORTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("destination.root", "SORTD_DEST")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Empty defaults register the keys so environment overrides reach
	// Unmarshal even without a config file.
	v.SetDefault("destination.root", "")
	v.SetDefault("taxonomy.file", "")
	v.SetDefault("taxonomy.fallback", "")

	weights := classify.DefaultWeights()
	v.SetDefault("classify.extension_weight", weights.Extension)
	v.SetDefault("classify.name_keyword_weight", weights.NameKeyword)
	v.SetDefault("classify.content_keyword_weight", weights.ContentKeyword)
	v.SetDefault("classify.content_hit_cap", weights.ContentHitCap)
	v.SetDefault("classify.specificity_bonus", weights.SpecificityBonus)
	v.SetDefault("classify.min_confidence", weights.MinConfidence)
	v.SetDefault("scan.sample_bytes", scan.DefaultSampleBytes)
	v.SetDefault("scan.workers", 4)
	v.SetDefault("commit.fs_timeout_seconds", 30)
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
}

// Weights maps the classify section onto classifier weights.
func (c *Config) Weights() classify.Weights {
	return classify.Weights{
		Extension:        c.Classify.ExtensionWeight,
		NameKeyword:      c.Classify.NameKeywordWeight,
		ContentKeyword:   c.Classify.ContentKeywordWeight,
		ContentHitCap:    c.Classify.ContentHitCap,
		SpecificityBonus: c.Classify.SpecificityBonus,
		MinConfidence:    c.Classify.MinConfidence,
	}
}

func (c *Config) FSTimeout() time.Duration {
	return time.Duration(c.Commit.FSTimeoutSeconds) * time.Second
}

func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// StateDir is where sortd keeps its own files under a destination root.
func StateDir(destRoot string) string {
	return filepath.Join(destRoot, scan.StateDirName)
}

func IndexPath(destRoot string) string {
	return filepath.Join(StateDir(destRoot), "index.db")
}

func LogsDir(destRoot string) string {
	return filepath.Join(StateDir(destRoot), "logs")
}
