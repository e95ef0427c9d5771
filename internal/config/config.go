// Package config handles application configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/experience/internal/engine/resources"
)

// Config holds all application settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Camera    CameraConfig    `yaml:"camera"`
	Resources ResourcesConfig `yaml:"resources"`
	Debug     DebugConfig     `yaml:"debug"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	Fullscreen     bool    `yaml:"fullscreen"`
	VSync          bool    `yaml:"vsync"`
	FPSLimit       int     `yaml:"fps_limit"` // 0 = paced by vsync only
	MaxPixelRatio  float64 `yaml:"max_pixel_ratio"`
	Exposure       float32 `yaml:"exposure"`
	Antialias      bool    `yaml:"antialias"`
	CoalesceResize bool    `yaml:"coalesce_resize"`
	Shadows        bool    `yaml:"shadows"`
	ShadowMapSize  int     `yaml:"shadow_map_size"`
}

// CameraConfig holds the perspective camera and orbit control settings.
type CameraConfig struct {
	FOV           float32    `yaml:"fov"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	Position      [3]float32 `yaml:"position"`
	Target        [3]float32 `yaml:"target"`
	Damping       bool       `yaml:"damping"`
	DampingFactor float32    `yaml:"damping_factor"`
	MinDistance   float32    `yaml:"min_distance"`
	MaxDistance   float32    `yaml:"max_distance"`
}

// ResourcesConfig lists the assets to load.
type ResourcesConfig struct {
	BaseDir        string             `yaml:"base_dir"`
	Manifest       string             `yaml:"manifest"` // relative to base_dir
	MaxConcurrent  int                `yaml:"max_concurrent"`
	Strict         bool               `yaml:"strict"`
	Environment    string             `yaml:"environment"`     // source name of the HDR map
	SurfaceTexture string             `yaml:"surface_texture"` // source name of the floor texture
	Sources        []resources.Source `yaml:"sources"`
}

// DebugConfig holds diagnostics settings.
type DebugConfig struct {
	ShowStats     bool          `yaml:"show_stats"`
	StatsInterval time.Duration `yaml:"stats_interval"`
	ScreenshotDir string        `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:          1280,
			Height:         720,
			Fullscreen:     false,
			VSync:          true,
			FPSLimit:       0,
			MaxPixelRatio:  2,
			Exposure:       1.75,
			Antialias:      true,
			CoalesceResize: true,
			Shadows:        true,
			ShadowMapSize:  1024,
		},
		Camera: CameraConfig{
			FOV:           35,
			Near:          0.1,
			Far:           100,
			Position:      [3]float32{0, 0, 5},
			Damping:       true,
			DampingFactor: 0.05,
			MinDistance:   2,
			MaxDistance:   10,
		},
		Resources: ResourcesConfig{
			BaseDir:       "assets",
			Manifest:      "sources.yaml",
			MaxConcurrent: resources.DefaultMaxConcurrent,
			Strict:        true,
		},
		Debug: DebugConfig{
			ShowStats:     false,
			StatsInterval: time.Second,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
