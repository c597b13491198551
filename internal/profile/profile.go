// Package profile defines the per-alias container image profiles.
//
// A profile captures everything that differs between build environments:
// default mounts, device passthrough, privilege level, network mode and
// shared-memory size. Adding a new environment means adding a table entry,
// not another conditional branch in the launcher.
package profile

import (
	"fmt"
	"sort"

	units "github.com/docker/go-units"

	"github.com/devcontools/devcon/internal/mounts"
)

// Profile describes one container image environment.
type Profile struct {
	// Alias is the short logical name selecting this profile.
	Alias string

	// DefaultMounts are applied before user -m mappings and can be
	// overridden by them per container path.
	DefaultMounts []mounts.Mapping

	// Devices are host device paths passed through to the container.
	Devices []string

	// Privileged grants full device access; needed by BSP profiles that
	// reprogram boards over USB/JTAG.
	Privileged bool

	// Network is the Docker network mode. Empty means bridge.
	Network string

	// ShmSize is the /dev/shm size (e.g. "2g"). Empty keeps the runtime
	// default of 64m, which is too small for Yocto builds.
	ShmSize string

	// ExtraEnv is additional environment set inside the container.
	ExtraEnv map[string]string
}

// ShmSizeBytes parses ShmSize into bytes. Zero means runtime default.
func (p Profile) ShmSizeBytes() (int64, error) {
	if p.ShmSize == "" {
		return 0, nil
	}
	n, err := units.RAMInBytes(p.ShmSize)
	if err != nil {
		return 0, fmt.Errorf("profile %s: invalid shm size %q: %w", p.Alias, p.ShmSize, err)
	}
	return n, nil
}

// builtin is the profile table keyed by alias.
var builtin = map[string]Profile{
	"qx": {
		Alias: "qx",
		// Instrument discovery uses UDP broadcast, which does not cross
		// the bridge network.
		Network: "host",
		DefaultMounts: []mounts.Mapping{
			{Source: "/srv/qx/licenses", Target: "/licenses", ReadOnly: true},
		},
	},
	"yocto_dunfell": {
		Alias:   "yocto_dunfell",
		ShmSize: "4g",
		DefaultMounts: []mounts.Mapping{
			{Source: "/srv/yocto/sstate-cache", Target: "/sstate-cache"},
			{Source: "/srv/yocto/downloads", Target: "/downloads"},
		},
	},
	"windows_mxe": {
		Alias: "windows_mxe",
	},
	"native_ubuntu_18_04": {
		Alias: "native_ubuntu_18_04",
	},
	"70pj_x86_bsp": {
		Alias:      "70pj_x86_bsp",
		Privileged: true,
		Devices:    []string{"/dev/bus/usb"},
	},
	"70pj_versal_bsp": {
		Alias:      "70pj_versal_bsp",
		Privileged: true,
		Devices:    []string{"/dev/bus/usb"},
		ShmSize:    "2g",
	},
	"70pj_ph091_fp": {
		Alias:      "70pj_ph091_fp",
		Privileged: true,
		Devices:    []string{"/dev/bus/usb", "/dev/ttyUSB0"},
	},
	"awscdk": {
		Alias: "awscdk",
		DefaultMounts: []mounts.Mapping{
			{Source: "~/.aws", Target: "/home/dev/.aws", ReadOnly: true},
		},
	},
}

// Lookup returns the profile for an alias.
func Lookup(alias string) (Profile, error) {
	p, ok := builtin[alias]
	if !ok {
		return Profile{}, fmt.Errorf("unknown image alias %q (known: %v)", alias, Aliases())
	}
	return p, nil
}

// Aliases returns the known aliases in sorted order.
func Aliases() []string {
	out := make([]string, 0, len(builtin))
	for alias := range builtin {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
