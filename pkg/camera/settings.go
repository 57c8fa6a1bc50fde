package camera

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Auto-control modes for exposure, gain and white balance.
const (
	AutoOff        = "off"
	AutoOnce       = "once"
	AutoContinuous = "continuous"
)

// Settings is the tunable surface of a stream-configurable camera.
// Hardware bindings persist these between runs; emulated providers ignore
// the sensor-only fields.
type Settings struct {
	// Geometry. Stream-immutable: changing these while streaming is
	// rejected with InvalidStateError.
	Width       int    `yaml:"width" json:"width"`
	Height      int    `yaml:"height" json:"height"`
	PixelFormat string `yaml:"pixel_format" json:"pixel_format"`

	// FrameRate is the target acquisition rate in frames per second.
	FrameRate float64 `yaml:"frame_rate" json:"frame_rate"`

	// ExposureTimeUS is manual exposure in microseconds. 0 means auto.
	ExposureTimeUS float64 `yaml:"exposure_time_us" json:"exposure_time_us"`
	// ExposureAuto is one of "off", "once", "continuous".
	ExposureAuto string `yaml:"exposure_auto" json:"exposure_auto"`

	// Gain is manual sensor gain in dB. 0 means auto.
	Gain float64 `yaml:"gain" json:"gain"`
	// GainAuto is one of "off", "once", "continuous".
	GainAuto string `yaml:"gain_auto" json:"gain_auto"`

	Gamma float64 `yaml:"gamma" json:"gamma"`

	// BalanceRatio is the manual white balance ratio.
	BalanceRatio float64 `yaml:"balance_ratio" json:"balance_ratio"`
	// BalanceWhiteAuto is one of "off", "once", "continuous".
	BalanceWhiteAuto string `yaml:"balance_white_auto" json:"balance_white_auto"`
}

// DefaultSettings returns a baseline 1080p RGB configuration with automatic
// exposure, gain and white balance.
func DefaultSettings() Settings {
	return Settings{
		Width:            1920,
		Height:           1080,
		PixelFormat:      FormatRGB8.String(),
		FrameRate:        30,
		ExposureAuto:     AutoContinuous,
		GainAuto:         AutoContinuous,
		Gamma:            1.0,
		BalanceWhiteAuto: AutoContinuous,
	}
}

// Validate checks that the settings are internally consistent.
func (s *Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid geometry %dx%d", s.Width, s.Height)
	}
	if _, err := ParsePixelFormat(s.PixelFormat); err != nil {
		return err
	}
	if s.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %g", s.FrameRate)
	}
	for _, mode := range []string{s.ExposureAuto, s.GainAuto, s.BalanceWhiteAuto} {
		switch mode {
		case AutoOff, AutoOnce, AutoContinuous:
		default:
			return fmt.Errorf("invalid auto mode %q", mode)
		}
	}
	return nil
}

// StreamImmutable reports whether the named settings field may not change
// while the provider is Streaming. Field names follow the yaml tags.
func StreamImmutable(field string) bool {
	switch field {
	case "width", "height", "pixel_format":
		return true
	}
	return false
}

// Encode serializes the settings to a yaml string.
func (s Settings) Encode() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(out), nil
}

// ParseSettings decodes settings from a yaml string.
func ParseSettings(text string) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal([]byte(text), &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadSettingsFile reads settings from a yaml file.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}
	return ParseSettings(string(data))
}

// SaveFile writes the settings to a yaml file.
func (s Settings) SaveFile(path string) error {
	text, err := s.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// SettingsPersister is implemented by providers whose configuration can be
// captured and restored, typically hardware bindings.
type SettingsPersister interface {
	// LoadSettings applies settings from a serialized string.
	LoadSettings(text string) error
	// LoadSettingsFile applies settings from a file.
	LoadSettingsFile(path string) error
	// SaveSettingsFile captures the current settings to a file.
	SaveSettingsFile(path string) error
}
