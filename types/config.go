package types

import (
	"fmt"
	"os"
)

type Config struct {
	LogsDir      string `json:"logs_dir"`
	DataDir      string `json:"data_dir"`
	Table        string `json:"table"`
	SamplePrefix string `json:"sample_prefix"`
	MetadataFile string `json:"metadata_file"`
	ServerPort   uint   `json:"server_port"`
	UIDir        string `json:"ui_dir"`
	Debug        bool   `json:"debug"`
}

// ValidateLoad checks the inputs of an ingestion run before any file I/O.
func (c *Config) ValidateLoad() error {
	info, err := os.Stat(c.LogsDir)
	if err != nil {
		return fmt.Errorf("logs directory %s is not accessible: %v", c.LogsDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("logs path %s is not a directory", c.LogsDir)
	}

	if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
		return fmt.Errorf("data path %s exists and is not a directory", c.DataDir)
	}

	return nil
}

// ValidateServe checks the inputs of the dashboard server.
func (c *Config) ValidateServe() error {
	info, err := os.Stat(c.DataDir)
	if err != nil {
		return fmt.Errorf("data directory %s is not accessible: %v", c.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", c.DataDir)
	}

	if c.ServerPort == 0 {
		return fmt.Errorf("server port must be set")
	}

	return nil
}
