// Package config provides configuration helpers for seedframe commands.
// A run file is a YAML document describing one animation: output geometry,
// motion mode, coherence settings, prompts, and parameter schedules.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seedframe/seedframe/pkg/animation"
	"github.com/seedframe/seedframe/pkg/synthesis"
)

// Default oracle configuration.
const (
	DefaultOracleURL      = "http://localhost:7860"
	DefaultTimeoutSeconds = 300
)

// Run is the run document for one animation. The same schema is read from
// a YAML file by the CLI and from a JSON request body by the HTTP server.
type Run struct {
	Width       int `yaml:"width" json:"width"`
	Height      int `yaml:"height" json:"height"`
	FPS         int `yaml:"fps" json:"fps"`
	TotalFrames int `yaml:"total_frames" json:"total_frames"`

	AnimationMode  string `yaml:"animation_mode" json:"animation_mode"`
	Border         string `yaml:"border" json:"border"`
	ColorCoherence string `yaml:"color_coherence" json:"color_coherence"`

	// Pointer fields distinguish an explicit zero/false from an omitted
	// key; nil keeps the engine default.
	DiffusionCadence int      `yaml:"diffusion_cadence" json:"diffusion_cadence"`
	UseOpticalFlow   *bool    `yaml:"use_optical_flow" json:"use_optical_flow"`
	TemporalStrength *float64 `yaml:"temporal_strength" json:"temporal_strength"`
	TemporalLayers   int      `yaml:"temporal_layers" json:"temporal_layers"`

	FrameInterpolation  bool `yaml:"frame_interpolation" json:"frame_interpolation"`
	InterpolationFactor int  `yaml:"interpolation_factor" json:"interpolation_factor"`

	Sampler  string  `yaml:"sampler" json:"sampler"`
	Steps    int     `yaml:"steps" json:"steps"`
	CFGScale float64 `yaml:"cfg_scale" json:"cfg_scale"`
	Seed     *int64  `yaml:"seed" json:"seed"`

	// Prompts maps a frame index to the prompt active from that frame on.
	Prompts map[int]string `yaml:"prompts" json:"prompts"`

	// Schedules maps a parameter name (zoom, angle, translation_x, ...) to a
	// schedule string like "0:(1.0),60:(1.05)".
	Schedules map[string]string `yaml:"schedules" json:"schedules"`

	// AudioFeatures holds named feature series (bass, treble, energy)
	// sampled over the audio track; resampled to the frame count at run
	// start. Optional.
	AudioFeatures map[string][]float64 `yaml:"audio_features" json:"audio_features"`

	Oracle OracleConfig `yaml:"oracle" json:"oracle"`
}

// OracleConfig describes the synthesis backend.
type OracleConfig struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	APIKey         string `yaml:"api_key" json:"api_key"`
	Checkpoint     string `yaml:"checkpoint" json:"checkpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries" json:"max_retries"`
}

// LoadRun reads and parses a run file.
func LoadRun(path string) (*Run, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run file: %w", err)
	}
	var run Run
	if err := yaml.Unmarshal(raw, &run); err != nil {
		return nil, fmt.Errorf("parse run file %s: %w", path, err)
	}
	return &run, nil
}

// Animation resolves the run file into an engine config. Missing fields keep
// the engine defaults; mode strings are parsed here so the frame loop never
// sees raw text.
func (r *Run) Animation() (animation.Config, error) {
	cfg := animation.DefaultConfig()

	if r.Width > 0 {
		cfg.Width = r.Width
	}
	if r.Height > 0 {
		cfg.Height = r.Height
	}
	if r.FPS > 0 {
		cfg.FPS = r.FPS
	}
	if r.TotalFrames > 0 {
		cfg.TotalFrames = r.TotalFrames
	}

	if r.AnimationMode != "" {
		mode, err := animation.ParseMode(r.AnimationMode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = mode
	}
	if r.Border != "" {
		border, err := animation.ParseBorderMode(r.Border)
		if err != nil {
			return cfg, err
		}
		cfg.Border = border
	}
	if r.ColorCoherence != "" {
		coherence, err := animation.ParseCoherenceMode(r.ColorCoherence)
		if err != nil {
			return cfg, err
		}
		cfg.Coherence = coherence
	}

	if r.DiffusionCadence > 0 {
		cfg.DiffusionCadence = r.DiffusionCadence
	}
	if r.UseOpticalFlow != nil {
		cfg.UseOpticalFlow = *r.UseOpticalFlow
	}
	// Strength 0 is meaningful: it disables temporal blending entirely.
	if r.TemporalStrength != nil {
		cfg.TemporalStrength = *r.TemporalStrength
	}
	if r.TemporalLayers > 0 {
		cfg.TemporalLayers = r.TemporalLayers
	}

	cfg.UseFrameInterpolation = r.FrameInterpolation
	if r.InterpolationFactor > 0 {
		cfg.InterpolationFactor = r.InterpolationFactor
	}

	if r.Sampler != "" {
		cfg.Sampler = r.Sampler
	}
	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	if r.CFGScale > 0 {
		cfg.GuidanceScale = r.CFGScale
	}
	// Seed 0 is a valid seed; only negative means "pick one".
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}

	keyframes, err := animation.BuildKeyframes(cfg.TotalFrames, r.Prompts, r.Schedules)
	if err != nil {
		return cfg, err
	}
	cfg.Keyframes = keyframes

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// OracleOptions translates the oracle section into client options.
// The base URL falls back to SEEDFRAME_ORACLE_URL, then the default.
func (r *Run) OracleOptions() []synthesis.Option {
	base := r.Oracle.BaseURL
	if base == "" {
		base = OracleURL(DefaultOracleURL)
	}

	opts := []synthesis.Option{synthesis.WithBaseURL(base)}
	if r.Oracle.APIKey != "" {
		opts = append(opts, synthesis.WithAPIKey(r.Oracle.APIKey))
	}
	if r.Oracle.Checkpoint != "" {
		opts = append(opts, synthesis.WithCheckpoint(r.Oracle.Checkpoint))
	}
	if r.Oracle.TimeoutSeconds > 0 {
		opts = append(opts, synthesis.WithTimeout(time.Duration(r.Oracle.TimeoutSeconds)*time.Second))
	}
	if r.Oracle.MaxRetries > 0 {
		opts = append(opts, synthesis.WithRetry(r.Oracle.MaxRetries, 500*time.Millisecond))
	}
	return opts
}

// OracleURL returns the oracle URL from SEEDFRAME_ORACLE_URL env var.
// Falls back to the provided default if not set.
func OracleURL(defaultURL string) string {
	if url := os.Getenv("SEEDFRAME_ORACLE_URL"); url != "" {
		return url
	}
	return defaultURL
}

// LogLevel returns the log level from LOG_LEVEL env var or "info".
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}
