// Package preset provides named bundles of pipeline options.
//
// A preset sets only the options it names; everything else keeps its current
// value. Presets therefore compose with flags and API parameters: apply the
// preset first, then let explicit settings override it.
//
// Built-in presets ship with the binary. Users can add their own or shadow
// built-ins with a TOML file at [DefaultPath], one table per preset:
//
//	[dusk]
//	description = "Dark streaks on the shadows"
//	low = 0.0
//	high = 0.35
//	metric = "luminance"
//	descending = true
package preset

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/pipeline"
)

// Preset is a partial set of pipeline options. Nil fields leave the target
// option unchanged when the preset is applied.
type Preset struct {
	Name        string `toml:"-" json:"name"`
	Description string `toml:"description" json:"description,omitempty"`

	Low        *float64 `toml:"low" json:"low,omitempty"`
	High       *float64 `toml:"high" json:"high,omitempty"`
	Channel    *string  `toml:"channel" json:"channel,omitempty"`
	Invert     *bool    `toml:"invert" json:"invert,omitempty"`
	Jitter     *float64 `toml:"jitter" json:"jitter,omitempty"`
	Seed       *uint64  `toml:"seed" json:"seed,omitempty"`
	Direction  *string  `toml:"direction" json:"direction,omitempty"`
	Metric     *string  `toml:"metric" json:"metric,omitempty"`
	Descending *bool    `toml:"descending" json:"descending,omitempty"`
	Gamma      *float64 `toml:"gamma" json:"gamma,omitempty"`
}

// Apply copies the preset's set fields onto opts. Call it before validating
// the options so that preset values pass through the usual checks.
func (p Preset) Apply(opts *pipeline.Options) {
	if p.Low != nil {
		opts.Low = *p.Low
	}
	if p.High != nil {
		opts.High = *p.High
	}
	if p.Channel != nil {
		opts.Channel = metric.Channel(*p.Channel)
	}
	if p.Invert != nil {
		opts.Invert = *p.Invert
	}
	if p.Jitter != nil {
		opts.Jitter = *p.Jitter
	}
	if p.Seed != nil {
		opts.Seed = *p.Seed
	}
	if p.Direction != nil {
		opts.Direction = *p.Direction
	}
	if p.Metric != nil {
		opts.Metric = metric.SortMetric(*p.Metric)
	}
	if p.Descending != nil {
		opts.Descending = *p.Descending
	}
	if p.Gamma != nil {
		opts.Gamma = *p.Gamma
	}
}

// Builtins returns the presets compiled into the binary, sorted by name.
func Builtins() []Preset {
	return sorted(builtins)
}

// Load returns the built-in presets merged with the user presets from path.
// User presets shadow built-ins with the same name. A missing file yields
// the built-ins alone; a file that cannot be parsed is an error.
func Load(path string) ([]Preset, error) {
	merged := make(map[string]Preset, len(builtins))
	for name, p := range builtins {
		merged[name] = p
	}

	if path != "" {
		user, err := readFile(path)
		if err != nil {
			return nil, err
		}
		for name, p := range user {
			merged[name] = p
		}
	}

	return sorted(merged), nil
}

// Find returns the preset with the given name.
func Find(presets []Preset, name string) (Preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return Preset{}, err
	}
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, errors.New(errors.ErrCodePresetNotFound, "unknown preset: %q", name)
}

// Save appends p to the preset file at path, creating the file and its
// directory when needed. A name already defined in the file is an error;
// existing entries, including their comments, are never rewritten.
func Save(path string, p Preset) error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	existing, err := readFile(path)
	if err != nil {
		return err
	}
	if _, ok := existing[p.Name]; ok {
		return errors.New(errors.ErrCodeInvalidPreset,
			"preset %q is already defined in %s", p.Name, path)
	}

	data, err := toml.Marshal(map[string]map[string]any{p.Name: p.fields()})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode preset %q", p.Name)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		data = append([]byte("\n"), data...)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to create %s", filepath.Dir(path))
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to open %s", path)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to write %s", path)
	}
	return nil
}

// fields returns the set fields as a map, the shape toml.Marshal turns into
// one [name] table. Nil fields stay absent so a round-trip through Save and
// Load preserves which options the preset leaves alone.
func (p Preset) fields() map[string]any {
	m := make(map[string]any)
	if p.Description != "" {
		m["description"] = p.Description
	}
	if p.Low != nil {
		m["low"] = *p.Low
	}
	if p.High != nil {
		m["high"] = *p.High
	}
	if p.Channel != nil {
		m["channel"] = *p.Channel
	}
	if p.Invert != nil {
		m["invert"] = *p.Invert
	}
	if p.Jitter != nil {
		m["jitter"] = *p.Jitter
	}
	if p.Seed != nil {
		m["seed"] = *p.Seed
	}
	if p.Direction != nil {
		m["direction"] = *p.Direction
	}
	if p.Metric != nil {
		m["metric"] = *p.Metric
	}
	if p.Descending != nil {
		m["descending"] = *p.Descending
	}
	if p.Gamma != nil {
		m["gamma"] = *p.Gamma
	}
	return m
}

// DefaultPath returns the user preset file location, honoring
// XDG_CONFIG_HOME. The file does not have to exist.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "pixelsort", "presets.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pixelsort", "presets.toml")
}

func readFile(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPreset, err, "failed to read preset file %s", path)
	}

	var user map[string]Preset
	if err := toml.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPreset, err, "failed to parse preset file %s", path)
	}

	for name := range user {
		if err := errors.ValidatePresetName(name); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func sorted(m map[string]Preset) []Preset {
	out := make([]Preset, 0, len(m))
	for name, p := range m {
		p.Name = name
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Preset) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
