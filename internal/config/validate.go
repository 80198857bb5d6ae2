package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAccess(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	if err := c.validateTagging(); err != nil {
		return err
	}
	return c.validateReencode()
}

func (c *Config) validateAccess() error {
	if c.Access.Salt == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/vidvault/config.toml"
		}
		return fmt.Errorf("access.salt is required. Set VIDVAULT_ACCESS_SALT or edit %s (create with 'vidvault config init')", defaultPath)
	}
	if c.Access.Iterations < 1 {
		return errors.New("access.iterations must be at least 1")
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	if c.Thumbnails.Height < 1 {
		return errors.New("thumbnails.height must be positive")
	}
	// A SHA-256 hex digest has 64 characters; the prefix must stay inside it.
	if c.Thumbnails.HashPrefixChars < 4 || c.Thumbnails.HashPrefixChars > 64 {
		return errors.New("thumbnails.hash_prefix_chars must be between 4 and 64")
	}
	return nil
}

func (c *Config) validateTagging() error {
	if c.Tagging.PartSize < 1 {
		return errors.New("tagging.part_size must be positive")
	}
	return nil
}

func (c *Config) validateReencode() error {
	if c.Reencode.MaxLines < 1 {
		return errors.New("reencode.max_lines must be positive")
	}
	if c.Reencode.MaxFPS <= 0 {
		return errors.New("reencode.max_fps must be positive")
	}
	if c.Reencode.MaxMiBPerSecond <= 0 {
		return errors.New("reencode.max_mib_per_second must be positive")
	}
	return nil
}
