package prefabs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownStep    = errors.New("prefabs: unknown step kind")
	ErrTargetMismatch = errors.New("prefabs: target does not support step")
	ErrBadVector      = errors.New("prefabs: wrong number of vector components")
	ErrNoScripts      = errors.New("prefabs: script step without a script runtime")
)

// SequenceSpec is a sequence definition as stored in a .yaml or .toml file.
type SequenceSpec struct {
	Name        string     `yaml:"name" toml:"name"`
	Loop        bool       `yaml:"loop" toml:"loop"`
	Secondary   bool       `yaml:"secondary" toml:"secondary"`
	IgnorePause bool       `yaml:"ignore_pause" toml:"ignore_pause"`
	Steps       []StepSpec `yaml:"steps" toml:"steps"`
}

// StepSpec is one builder call. Which fields matter depends on Kind.
type StepSpec struct {
	Kind     string    `yaml:"kind" toml:"kind"`
	Duration string    `yaml:"duration" toml:"duration"`
	To       []float64 `yaml:"to" toml:"to"`
	By       []float64 `yaml:"by" toml:"by"`
	Value    float64   `yaml:"value" toml:"value"`
	Field    string    `yaml:"field" toml:"field"`
	Script   string    `yaml:"script" toml:"script"`
}

// Dur parses the step duration. An empty duration is zero.
func (s StepSpec) Dur() (time.Duration, error) {
	if strings.TrimSpace(s.Duration) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Duration)
	if err != nil {
		return 0, fmt.Errorf("prefabs: duration %q: %w", s.Duration, err)
	}
	return d, nil
}

// Decode parses a definition, choosing the format by the file extension.
func Decode(name string, data []byte) (SequenceSpec, error) {
	var spec SequenceSpec
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		err = toml.Unmarshal(data, &spec)
	default:
		err = yaml.Unmarshal(data, &spec)
	}
	if err != nil {
		return SequenceSpec{}, fmt.Errorf("prefabs: unmarshal %s: %w", name, err)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return spec, nil
}

// LoadSequence loads and decodes a definition from disk or the embedded set.
func LoadSequence(name string) (SequenceSpec, error) {
	data, err := Load(name)
	if err != nil {
		return SequenceSpec{}, fmt.Errorf("prefabs: load %s: %w", name, err)
	}
	return Decode(name, data)
}
