package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Classify.ExtensionWeight <= 0 {
		return errors.New("classify.extension_weight must be positive")
	}
	if c.Classify.NameKeywordWeight <= 0 {
		return errors.New("classify.name_keyword_weight must be positive")
	}
	if c.Classify.ContentKeywordWeight <= 0 {
		return errors.New("classify.content_keyword_weight must be positive")
	}
	if c.Classify.ContentHitCap < 1 {
		return errors.New("classify.content_hit_cap must be at least 1")
	}
	if c.Classify.SpecificityBonus < 0 {
		return errors.New("classify.specificity_bonus must not be negative")
	}
	if c.Classify.MinConfidence < 0 {
		return errors.New("classify.min_confidence must not be negative")
	}

	if c.Scan.SampleBytes <= 0 {
		return errors.New("scan.sample_bytes must be positive")
	}
	if c.Scan.Workers < 1 {
		return errors.New("scan.workers must be at least 1")
	}

	if c.Commit.FSTimeoutSeconds <= 0 {
		return errors.New("commit.fs_timeout_seconds must be positive")
	}

	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port (%d) must be between 1 and 65535", c.Server.Port)
	}

	return nil
}
