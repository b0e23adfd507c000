// Package config loads the viewer configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete viewer configuration.
type Config struct {
	Camera  CameraConfig  `yaml:"camera"`
	Model   ModelConfig   `yaml:"model"`
	Display DisplayConfig `yaml:"display"`
}

// CameraConfig selects and shapes the capture device.
type CameraConfig struct {
	// Index is the local device index (default 0).
	Index int `yaml:"index"`
	// Width/Height is the requested resolution, applied best-effort.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ModelConfig configures the external pose worker.
type ModelConfig struct {
	// Path is the pose model reference handed to the worker.
	Path string `yaml:"path"`
	// WorkerCommand launches the inference worker process.
	WorkerCommand string `yaml:"worker_command"`
	// Confidence is the session-wide keypoint confidence threshold.
	Confidence float64 `yaml:"confidence"`
}

// DisplayConfig configures the preview window.
type DisplayConfig struct {
	WindowTitle string `yaml:"window_title"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Camera: CameraConfig{
			Index:  0,
			Width:  1280,
			Height: 720,
		},
		Model: ModelConfig{
			Path:          "yolo11n-pose.onnx",
			WorkerCommand: "models/run_pose_worker.sh",
			Confidence:    0.3,
		},
		Display: DisplayConfig{
			WindowTitle: "pose overlay",
		},
	}
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a typo would most plausibly break.
func (c *Config) Validate() error {
	if c.Camera.Index < 0 {
		return fmt.Errorf("config: camera.index must be >= 0, got %d", c.Camera.Index)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("config: camera resolution must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("config: model.path is required")
	}
	if c.Model.Confidence < 0 {
		return fmt.Errorf("config: model.confidence must be >= 0, got %v", c.Model.Confidence)
	}
	return nil
}
