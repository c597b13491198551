package session

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/devcontools/devcon/internal/config"
	"github.com/devcontools/devcon/internal/container"
	"github.com/devcontools/devcon/internal/identity"
	"github.com/devcontools/devcon/internal/image"
	"github.com/devcontools/devcon/internal/mounts"
	"github.com/devcontools/devcon/internal/profile"
)

// Options is the normalized per-invocation configuration, one field per
// CLI option.
type Options struct {
	Alias     string // -d/--image
	ImagePath string // -p/--docker-path
	Version   string // -v/--docker-image-ver
	Name      string // -n/--name
	Cmd       string // -c/--cmd
	Batch     bool   // -b/--batch

	EnvSpec string // -e/--env-vars
	MapSpec string // -m/--map-locations

	WorkDir    string // -w/--work-dir
	SSHKeysDir string // -s/--ssh-keys-dir
	XAuthDir   string // -x/--xauth-dir
	XSocketDir string // -X/--xsocket-dir
}

// launch is a fully reconciled invocation: identity, image candidates and
// the container spec minus the image reference, which resolution fills in.
type launch struct {
	id         identity.Identity
	candidates []image.Candidate
	spec       container.CreateSpec
}

func (m *Manager) buildLaunch(opts Options) (*launch, error) {
	id, prof, candidates, err := m.resolveSelection(opts)
	if err != nil {
		return nil, err
	}

	table, err := m.reconcileMounts(opts, prof)
	if err != nil {
		return nil, err
	}

	env, err := m.buildEnv(opts, prof, table)
	if err != nil {
		return nil, err
	}

	shmSize, err := prof.ShmSizeBytes()
	if err != nil {
		return nil, err
	}

	return &launch{
		id:         id,
		candidates: candidates,
		spec: container.CreateSpec{
			Name:       id.ContainerName(),
			Labels:     id.Labels(),
			WorkDir:    config.ContainerWorkDir,
			Mounts:     table.List(),
			Env:        env,
			Devices:    prof.Devices,
			Privileged: prof.Privileged,
			Network:    prof.Network,
			ShmSize:    shmSize,
		},
	}, nil
}

// resolveSelection validates the alias/path selection and produces the
// identity, profile and candidate list.
func (m *Manager) resolveSelection(opts Options) (identity.Identity, profile.Profile, []image.Candidate, error) {
	var prof profile.Profile
	aliasForIdentity := opts.Alias

	if opts.ImagePath == "" {
		if opts.Alias == "" {
			return identity.Identity{}, profile.Profile{}, nil,
				fmt.Errorf("an image alias (--image) or explicit path (--docker-path) is required")
		}
		p, err := profile.LookupWith(opts.Alias, m.overrides)
		if err != nil {
			return identity.Identity{}, profile.Profile{}, nil, err
		}
		prof = p
	} else {
		aliasForIdentity = ""
	}

	id, err := identity.New(aliasForIdentity, opts.Name)
	if err != nil {
		return identity.Identity{}, profile.Profile{}, nil, err
	}

	candidates, err := image.Candidates(image.Request{
		Alias:        opts.Alias,
		ExplicitPath: opts.ImagePath,
		Version:      m.version(opts),
	}, m.cfg.Registry)
	if err != nil {
		return identity.Identity{}, profile.Profile{}, nil, err
	}

	return id, prof, candidates, nil
}

func (m *Manager) version(opts Options) string {
	if opts.Version != "" {
		return opts.Version
	}
	return m.cfg.Image.DefaultVersion
}

// reconcileMounts applies the mapping stages in precedence order: profile
// defaults, user -m entries, then the fixed ssh/X11/work-dir mappings.
func (m *Manager) reconcileMounts(opts Options, prof profile.Profile) (*mounts.Table, error) {
	table := mounts.NewTable()

	for _, dm := range prof.DefaultMounts {
		src, err := mounts.ExpandPath(dm.Source)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", prof.Alias, err)
		}
		table.Put(mounts.Mapping{Source: src, Target: dm.Target, ReadOnly: dm.ReadOnly})
	}

	if opts.MapSpec != "" {
		user, err := mounts.ParseSpec(opts.MapSpec)
		if err != nil {
			return nil, err
		}
		table.PutAll(user)
	}

	if err := m.applyFixedMounts(opts, table); err != nil {
		return nil, err
	}

	return table, nil
}

func (m *Manager) applyFixedMounts(opts Options, table *mounts.Table) error {
	// SSH keys, read-only.
	sshDir := firstNonEmpty(opts.SSHKeysDir, m.cfg.Paths.SSHKeysDir)
	if sshDir != "" {
		if expanded, err := mounts.ExpandPath(sshDir); err == nil && mounts.DirExists(expanded) {
			table.Put(mounts.Mapping{Source: expanded, Target: config.ContainerSSHKeysDir, ReadOnly: true})
		}
	}

	// X authority file, read-only.
	if xauth := m.xauthPath(opts); xauth != "" {
		table.Put(mounts.Mapping{Source: xauth, Target: config.ContainerXAuthFile, ReadOnly: true})
	}

	// X11 socket directory, mounted at the same path so DISPLAY values
	// stay valid inside the container.
	xsocket := firstNonEmpty(opts.XSocketDir, m.cfg.Paths.XSocketDir)
	if xsocket != "" {
		if expanded, err := mounts.ExpandPath(xsocket); err == nil && mounts.DirExists(expanded) {
			table.Put(mounts.Mapping{Source: expanded, Target: expanded})
		}
	}

	// Working directory, read-write.
	workDir := firstNonEmpty(opts.WorkDir, m.cfg.Paths.WorkDir)
	if workDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine work directory: %w", err)
		}
		workDir = home
	}
	expanded, err := mounts.ExpandPath(workDir)
	if err != nil {
		return fmt.Errorf("invalid work directory: %w", err)
	}
	table.Put(mounts.Mapping{Source: expanded, Target: config.ContainerWorkDir})

	return nil
}

func (m *Manager) xauthPath(opts Options) string {
	candidates := []string{opts.XAuthDir, m.cfg.Paths.XAuthDir, os.Getenv("XAUTHORITY"), "~/.Xauthority"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		expanded, err := mounts.ExpandPath(c)
		if err != nil {
			continue
		}
		// An explicit directory option means the .Xauthority inside it.
		if mounts.DirExists(expanded) {
			expanded = expanded + "/.Xauthority"
		}
		if mounts.FileExists(expanded) {
			return expanded
		}
	}
	return ""
}

// buildEnv merges environment stages with the same last-write-wins rule as
// mounts, keyed by variable name: config passthrough and custom vars,
// profile extras, git identity, then user -e entries.
func (m *Manager) buildEnv(opts Options, prof profile.Profile, table *mounts.Table) ([]string, error) {
	env := make(map[string]string)

	for _, key := range m.cfg.Environment.Passthrough {
		if val, ok := os.LookupEnv(key); ok {
			env[key] = val
		}
	}
	for k, v := range m.cfg.Environment.Custom {
		env[k] = v
	}
	for k, v := range prof.ExtraEnv {
		env[k] = v
	}
	for k, v := range identity.ReadGitUser().Env() {
		env[k] = v
	}

	if _, ok := table.Get(config.ContainerXAuthFile); ok {
		env["XAUTHORITY"] = config.ContainerXAuthFile
	}

	if opts.EnvSpec != "" {
		user, err := parseEnvSpec(opts.EnvSpec)
		if err != nil {
			return nil, err
		}
		for k, v := range user {
			env[k] = v
		}
	}

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out, nil
}

// parseEnvSpec parses a semicolon-delimited K=V list.
func parseEnvSpec(spec string) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment entry %q: expected KEY=VALUE", entry)
		}
		out[key] = value
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
