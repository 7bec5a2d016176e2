package config

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lightmetrica/lightmetrica-go/pkg/rerrors"
)

// Preset is the YAML-decodable subset of RenderConfig: every scalar key
// spec.md §6.2 names. Scene and Output are asset-catalog/film references,
// not config-file strings (scene-graph construction and film allocation are
// both out of scope per the purpose statement), so a Preset only carries
// what ApplyTo merges into a caller-supplied RenderConfig that already has
// those two fields set.
type Preset struct {
	MaxLength       int             `yaml:"max_length"`
	Seed            *uint32         `yaml:"seed"`
	Mode            Mode            `yaml:"mode"`
	ImageSampleMode ImageSampleMode `yaml:"image_sample_mode"`
	Scheduler       SchedulerKind   `yaml:"scheduler"`
	Integrator      Integrator      `yaml:"integrator"`

	SPP     int `yaml:"spp"`
	SPI     int `yaml:"spi"`
	Workers int `yaml:"workers"`

	MaxVerts int     `yaml:"max_verts"`
	RRProb   float64 `yaml:"rr_prob"`
}

// DecodePreset reads a YAML document into a Preset.
func DecodePreset(r io.Reader) (Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Preset{}, rerrors.Wrap(rerrors.InvalidArgument, "decoding render preset", err)
	}
	return p, nil
}

// ApplyTo merges p's scalar fields into base, which must already carry
// Scene and Output, and returns the combined RenderConfig. Zero-valued
// Preset fields leave base's existing value untouched, so a caller can
// start from programmatic defaults and let a preset file override only the
// keys it names.
func (p Preset) ApplyTo(base RenderConfig) RenderConfig {
	if p.MaxLength != 0 {
		base.MaxLength = p.MaxLength
	}
	if p.Seed != nil {
		base.Seed = p.Seed
	}
	if p.Mode != "" {
		base.Mode = p.Mode
	}
	if p.ImageSampleMode != "" {
		base.ImageSampleMode = p.ImageSampleMode
	}
	if p.Scheduler != "" {
		base.Scheduler = p.Scheduler
	}
	if p.Integrator != "" {
		base.Integrator = p.Integrator
	}
	if p.SPP != 0 {
		base.SPP = p.SPP
	}
	if p.SPI != 0 {
		base.SPI = p.SPI
	}
	if p.Workers != 0 {
		base.Workers = p.Workers
	}
	if p.MaxVerts != 0 {
		base.MaxVerts = p.MaxVerts
	}
	if p.RRProb != 0 {
		base.RRProb = p.RRProb
	}
	return base
}
