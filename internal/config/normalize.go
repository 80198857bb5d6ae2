package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeAccess(); err != nil {
		return err
	}
	c.normalizeThumbnails()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BuildDir) == "" {
		c.Paths.BuildDir = filepath.Join(c.Paths.DataDir, "build")
	}
	if c.Paths.BuildDir, err = expandPath(c.Paths.BuildDir); err != nil {
		return fmt.Errorf("paths.build_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAccess() error {
	c.Access.Salt = strings.TrimSpace(c.Access.Salt)
	if value, ok := os.LookupEnv("VIDVAULT_ACCESS_SALT"); ok {
		c.Access.Salt = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("VIDVAULT_ACCESS_ITERATIONS"); ok {
		iterations, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("VIDVAULT_ACCESS_ITERATIONS: %w", err)
		}
		c.Access.Iterations = iterations
	}
	return nil
}

func (c *Config) normalizeThumbnails() {
	if strings.TrimSpace(c.Thumbnails.FfmpegBinary) == "" {
		c.Thumbnails.FfmpegBinary = defaultFfmpegBinary
	}
	if strings.TrimSpace(c.Thumbnails.FfprobeBinary) == "" {
		c.Thumbnails.FfprobeBinary = defaultFfprobeBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
