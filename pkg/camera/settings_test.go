package camera

import (
	"path/filepath"
	"testing"
)

func TestDefaultSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestSettingsValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero width", func(s *Settings) { s.Width = 0 }},
		{"negative framerate", func(s *Settings) { s.FrameRate = -1 }},
		{"bad pixel format", func(s *Settings) { s.PixelFormat = "YUV422" }},
		{"bad auto mode", func(s *Settings) { s.GainAuto = "sometimes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestSettingsFileRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Width = 640
	s.Height = 480
	s.PixelFormat = FormatBayerGR8.String()
	s.ExposureAuto = AutoOff
	s.ExposureTimeUS = 8000

	path := filepath.Join(t.TempDir(), "camera.yaml")
	if err := s.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	loaded, err := LoadSettingsFile(path)
	if err != nil {
		t.Fatalf("LoadSettingsFile() error = %v", err)
	}
	if loaded != s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, s)
	}
}

func TestParseSettingsRejectsInvalid(t *testing.T) {
	if _, err := ParseSettings("width: [not an int]"); err == nil {
		t.Error("ParseSettings should reject malformed yaml")
	}
	if _, err := ParseSettings("width: 0\nheight: 0"); err == nil {
		t.Error("ParseSettings should reject settings that fail validation")
	}
}

func TestStreamImmutableFields(t *testing.T) {
	for _, field := range []string{"width", "height", "pixel_format"} {
		if !StreamImmutable(field) {
			t.Errorf("StreamImmutable(%q) = false, want true", field)
		}
	}
	for _, field := range []string{"frame_rate", "gain", "exposure_time_us"} {
		if StreamImmutable(field) {
			t.Errorf("StreamImmutable(%q) = true, want false", field)
		}
	}
}
