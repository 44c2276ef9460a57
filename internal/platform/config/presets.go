package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a camera whose HDR profiles are configured at startup. Sequences
// use the camera's "exposure[:gain],..." form.
type Preset struct {
	Camera       string `yaml:"camera"`
	HDRSequence  string `yaml:"hdr_sequence"`
	HDRSequence2 string `yaml:"hdr_sequence2"`
}

type presetsFile struct {
	Cameras []Preset `yaml:"cameras"`
}

// LoadPresets reads camera presets from a YAML file of the form:
//
//	cameras:
//	  - camera: cam0
//	    hdr_sequence: "19:1.2,150"
//	    hdr_sequence2: "250,350,450"
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes presets from YAML. Every preset needs a camera name.
func ParsePresets(data []byte) ([]Preset, error) {
	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	for i, p := range f.Cameras {
		if p.Camera == "" {
			return nil, fmt.Errorf("preset %d: camera is required", i)
		}
	}
	return f.Cameras, nil
}
