package charify

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile tunes the rendering and playback constants that are otherwise
// fixed: the glyph ramp, the aspect-ratio correction factor, the color-mode
// blur sigma, and the minimum frame delay. Omitted keys keep their defaults.
type Profile struct {
	Ramp            string  `yaml:"ramp"`
	AspectRatio     float64 `yaml:"aspect_ratio"`
	BlurSigma       float64 `yaml:"blur_sigma"`
	MinFrameDelayMS int     `yaml:"min_frame_delay_ms"`
}

func DefaultProfile() *Profile {
	return &Profile{
		Ramp:            DefaultRamp,
		AspectRatio:     DefaultAspectRatio,
		BlurSigma:       DefaultBlurSigma,
		MinFrameDelayMS: int(MinFrameDelay / time.Millisecond),
	}
}

// LoadProfile reads a yaml profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Ramp == "" {
		return nil, errors.New("profile ramp must not be empty")
	}
	if p.AspectRatio <= 0 {
		return nil, errors.New("profile aspect_ratio must be positive")
	}
	if p.MinFrameDelayMS < 0 {
		return nil, errors.New("profile min_frame_delay_ms must not be negative")
	}
	return p, nil
}

// MinDelay returns the minimum frame delay as a duration.
func (p *Profile) MinDelay() time.Duration {
	return time.Duration(p.MinFrameDelayMS) * time.Millisecond
}
