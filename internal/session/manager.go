// Package session implements the container session verbs: create, exec,
// run, list and clean. It owns no state of its own; the container runtime
// is the single source of truth for what exists.
package session

import (
	"context"
	"strings"

	"github.com/devcontools/devcon/internal/config"
	"github.com/devcontools/devcon/internal/container"
	"github.com/devcontools/devcon/internal/identity"
	"github.com/devcontools/devcon/internal/image"
	"github.com/devcontools/devcon/internal/mounts"
	"github.com/devcontools/devcon/internal/profile"
	"github.com/devcontools/devcon/internal/ui"
)

// keepAliveCmd keeps a created container alive without a workload so exec
// can enter it later.
var keepAliveCmd = []string{"sleep", "infinity"}

// Runtime is the slice of the container runtime the session manager uses.
// *container.Client implements it.
type Runtime interface {
	image.Registry

	FindOwned(ctx context.Context, ownerLabel, name string) (*container.Info, error)
	ListOwned(ctx context.Context, ownerLabel string) ([]container.Info, error)
	Create(ctx context.Context, spec container.CreateSpec) (string, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string, timeoutSeconds int) error
	Remove(ctx context.Context, id string, force bool) error
	RunAttached(ctx context.Context, spec container.CreateSpec) (int, error)
	Exec(ctx context.Context, id string, spec container.ExecSpec) (int, error)
}

// Manager drives the session verbs against a Runtime.
type Manager struct {
	rt        Runtime
	cfg       *config.Config
	overrides map[string]profile.Override
	resolver  *image.Resolver
}

// NewManager builds a session manager. creds supplies credentials for
// registries other than the configured internal one; nil disables
// interactive login (batch mode).
func NewManager(rt Runtime, cfg *config.Config, creds image.CredentialFunc) (*Manager, error) {
	overridesPath := cfg.Profiles.File
	if overridesPath != "" {
		expanded, err := mounts.ExpandPath(overridesPath)
		if err != nil {
			return nil, err
		}
		overridesPath = expanded
	}
	overrides, err := profile.LoadOverrides(overridesPath)
	if err != nil {
		return nil, err
	}

	return &Manager{
		rt:        rt,
		cfg:       cfg,
		overrides: overrides,
		resolver: &image.Resolver{
			Registry:     rt,
			InternalHost: cfg.Registry.Host,
			InternalCred: image.Credential{
				Username: cfg.Registry.Username,
				Password: cfg.Registry.Password,
			},
			Credentials: creds,
		},
	}, nil
}

// Create resolves the image and creates a persistent named container,
// started detached with a keep-alive command. Fails if a container with
// the same identity already exists.
func (m *Manager) Create(ctx context.Context, opts Options) (string, error) {
	l, err := m.buildLaunch(opts)
	if err != nil {
		return "", err
	}

	if err := m.guardNotExists(ctx, l.id); err != nil {
		return "", err
	}

	cand, err := m.resolver.Resolve(ctx, l.candidates)
	if err != nil {
		return "", err
	}

	spec := l.spec
	spec.Image = cand.Ref
	spec.Cmd = keepAliveCmd

	id, err := m.rt.Create(ctx, spec)
	if err != nil {
		return "", err
	}
	if err := m.rt.Start(ctx, id); err != nil {
		return "", err
	}

	return spec.Name, nil
}

// Run resolves the image and runs a container to completion, auto-removed
// on exit, streaming output to the terminal. Returns the container's exit
// code. The same existence guard as Create applies.
func (m *Manager) Run(ctx context.Context, opts Options) (int, error) {
	l, err := m.buildLaunch(opts)
	if err != nil {
		return 0, err
	}

	if err := m.guardNotExists(ctx, l.id); err != nil {
		return 0, err
	}

	cand, err := m.resolver.Resolve(ctx, l.candidates)
	if err != nil {
		return 0, err
	}

	spec := l.spec
	spec.Image = cand.Ref
	spec.User = identity.ExecUser()
	spec.AutoRemove = true
	spec.Tty = !opts.Batch
	spec.Interactive = !opts.Batch
	if opts.Cmd != "" {
		spec.Cmd = shellCommand(opts.Cmd)
	}

	return m.rt.RunAttached(ctx, spec)
}

// Exec runs a command in an existing container matching the identity,
// starting it first if stopped. The search prefers containers whose image
// matches the resolution candidates in priority order.
func (m *Manager) Exec(ctx context.Context, opts Options) (int, error) {
	id, _, candidates, err := m.resolveSelection(opts)
	if err != nil {
		return 0, err
	}

	target, err := m.findExecTarget(ctx, id, candidates)
	if err != nil {
		return 0, err
	}

	if !target.Running() {
		if err := m.rt.Start(ctx, target.ID); err != nil {
			return 0, err
		}
	}

	cmd := []string{"/bin/bash", "-l"}
	if opts.Cmd != "" {
		cmd = shellCommand(opts.Cmd)
	}

	return m.rt.Exec(ctx, target.ID, container.ExecSpec{
		Cmd:     cmd,
		User:    identity.ExecUser(),
		WorkDir: config.ContainerWorkDir,
		Tty:     !opts.Batch,
	})
}

// List returns the invoking user's containers.
func (m *Manager) List(ctx context.Context) ([]container.Info, error) {
	id, err := identity.New("", "")
	if err != nil {
		return nil, err
	}
	return m.rt.ListOwned(ctx, id.OwnerLabel())
}

// Clean stops and removes every container owned by the invoking user.
// Individual failures are reported but do not abort the batch; the count
// of removed containers is returned.
func (m *Manager) Clean(ctx context.Context) (int, error) {
	infos, err := m.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, info := range infos {
		if info.Running() {
			if err := m.rt.Stop(ctx, info.ID, 0); err != nil {
				ui.Warn("failed to stop %s: %v", info.Name, err)
			}
		}
		if err := m.rt.Remove(ctx, info.ID, true); err != nil {
			ui.Warn("failed to remove %s: %v", info.Name, err)
			continue
		}
		ui.Success("removed %s", info.Name)
		removed++
	}
	return removed, nil
}

func (m *Manager) guardNotExists(ctx context.Context, id identity.Identity) error {
	existing, err := m.rt.FindOwned(ctx, id.OwnerLabel(), id.ContainerName())
	if err != nil {
		return err
	}
	if existing != nil {
		return &AlreadyExistsError{Name: id.ContainerName()}
	}
	return nil
}

// findExecTarget locates the exec target among owned containers: exact
// name match, preferring image ancestry in candidate priority order.
func (m *Manager) findExecTarget(ctx context.Context, id identity.Identity, candidates []image.Candidate) (*container.Info, error) {
	infos, err := m.rt.ListOwned(ctx, id.OwnerLabel())
	if err != nil {
		return nil, err
	}

	name := id.ContainerName()

	for _, cand := range candidates {
		for _, info := range infos {
			if info.Name == name && info.Image == cand.Ref {
				return &info, nil
			}
		}
	}

	// A container created from an image that is no longer a candidate
	// (e.g. a retagged version) still matches by name.
	for _, info := range infos {
		if info.Name == name {
			return &info, nil
		}
	}

	return nil, &NotFoundError{Name: name}
}

// shellCommand wraps a user command string for in-container execution.
func shellCommand(cmd string) []string {
	return []string{"/bin/sh", "-lc", strings.TrimSpace(cmd)}
}
