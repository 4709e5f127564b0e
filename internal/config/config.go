package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// WorkDir is the root directory for per-compilation output.
	WorkDir string `yaml:"work_dir"`

	Channel Channel      `yaml:"channel"`
	Video   VideoFormat  `yaml:"video"`
	Short   ShortFormat  `yaml:"short"`
	Viz     Visualizer   `yaml:"visualizer"`
	Encode  EncodeConfig `yaml:"encode"`
	FFmpeg  FFmpegConfig `yaml:"ffmpeg"`
	Fal     FalConfig    `yaml:"fal"`
	Upload  UploadConfig `yaml:"upload"`
}

// Channel identifies the channel branding burned into overlays.
type Channel struct {
	Name   string `yaml:"name"`
	Handle string `yaml:"handle"`
}

// VideoFormat is the long-form (horizontal) output format.
type VideoFormat struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FPS    float64 `yaml:"fps"`
}

// ShortFormat is the vertical short-clip output format.
type ShortFormat struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Duration  float64 `yaml:"duration"`
	VizHeight int     `yaml:"visualizer_height"`
}

// Visualizer tunes the per-segment composition.
type Visualizer struct {
	Height       int     `yaml:"height"`
	ZoomRate     float64 `yaml:"zoom_rate"`
	MaxZoom      float64 `yaml:"max_zoom"`
	FadeDuration float64 `yaml:"fade_duration"`
	TitleDisplay float64 `yaml:"title_display"`
	Effect       string  `yaml:"effect"`
}

type EncodeConfig struct {
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type FFmpegConfig struct {
	Threads int `yaml:"threads"`
}

type FalConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	MaskModel string `yaml:"mask_model"`
}

type UploadConfig struct {
	Privacy    string   `yaml:"privacy"`
	CategoryID string   `yaml:"category_id"`
	Tags       []string `yaml:"tags"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		WorkDir: "./compilations",
		Channel: Channel{
			Name:   "LatentFlow",
			Handle: "@latentflow",
		},
		Video: VideoFormat{
			Width:  1920,
			Height: 1080,
			FPS:    30,
		},
		Short: ShortFormat{
			Width:     1080,
			Height:    1920,
			Duration:  45,
			VizHeight: 250,
		},
		Viz: Visualizer{
			Height:       150,
			ZoomRate:     0.00015,
			MaxZoom:      1.5,
			FadeDuration: 1,
			TitleDisplay: 5,
			Effect:       "glow_bars",
		},
		Encode: EncodeConfig{
			Preset:       "medium",
			CRF:          23,
			AudioBitrate: "192k",
		},
		FFmpeg: FFmpegConfig{
			Threads: 0,
		},
		Fal: FalConfig{
			Endpoint:  "https://fal.run",
			Model:     "fal-ai/flux/dev",
			MaskModel: "fal-ai/birefnet",
		},
		Upload: UploadConfig{
			Privacy:    "unlisted",
			CategoryID: "10",
			Tags: []string{
				"amapiano", "amapiano mix", "south african house",
				"sa house music", "piano music", "african music",
				"deep house", "study music",
			},
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./mixforge.yaml",
		"./mixforge.yml",
		filepath.Join(os.Getenv("HOME"), ".mixforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
