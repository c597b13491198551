package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devcontools/devcon/internal/mounts"
)

// Override is a per-alias adjustment loaded from a profiles.yaml file.
// Nil pointer fields leave the builtin value untouched; mount entries are
// applied on top of the builtin defaults (same container path replaces).
type Override struct {
	Mounts     []MountEntry      `yaml:"mounts"`
	Devices    []string          `yaml:"devices"`
	Privileged *bool             `yaml:"privileged"`
	Network    *string           `yaml:"network"`
	ShmSize    *string           `yaml:"shm_size"`
	Env        map[string]string `yaml:"env"`
}

// MountEntry is a mount mapping in the override file.
type MountEntry struct {
	Source   string `yaml:"source"`
	Target   string `yaml:"target"`
	ReadOnly bool   `yaml:"readonly"`
}

type overrideFile struct {
	Profiles map[string]Override `yaml:"profiles"`
}

// LoadOverrides reads a profiles.yaml override file. An empty path returns
// no overrides. Unknown aliases in the file are rejected so a typo does
// not silently configure nothing.
func LoadOverrides(path string) (map[string]Override, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile overrides: %w", err)
	}

	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profile overrides %s: %w", path, err)
	}

	for alias := range f.Profiles {
		if _, ok := builtin[alias]; !ok {
			return nil, fmt.Errorf("profile overrides %s: unknown alias %q", path, alias)
		}
	}

	return f.Profiles, nil
}

// LookupWith returns the profile for an alias with overrides applied.
func LookupWith(alias string, overrides map[string]Override) (Profile, error) {
	p, err := Lookup(alias)
	if err != nil {
		return Profile{}, err
	}
	if o, ok := overrides[alias]; ok {
		p = p.withOverride(o)
	}
	return p, nil
}

func (p Profile) withOverride(o Override) Profile {
	if len(o.Mounts) > 0 {
		table := mounts.NewTable()
		table.PutAll(p.DefaultMounts)
		for _, m := range o.Mounts {
			table.Put(mounts.Mapping{Source: m.Source, Target: m.Target, ReadOnly: m.ReadOnly})
		}
		p.DefaultMounts = table.List()
	}
	if len(o.Devices) > 0 {
		p.Devices = append(append([]string{}, p.Devices...), o.Devices...)
	}
	if o.Privileged != nil {
		p.Privileged = *o.Privileged
	}
	if o.Network != nil {
		p.Network = *o.Network
	}
	if o.ShmSize != nil {
		p.ShmSize = *o.ShmSize
	}
	if len(o.Env) > 0 {
		env := make(map[string]string, len(p.ExtraEnv)+len(o.Env))
		for k, v := range p.ExtraEnv {
			env[k] = v
		}
		for k, v := range o.Env {
			env[k] = v
		}
		p.ExtraEnv = env
	}
	return p
}
