// Package container wraps the Docker SDK client with the operations the
// session manager needs: lifecycle by ownership label, attached runs,
// in-container execs and registry login/pull.
package container

import (
	"context"
	"fmt"
	"io"
	"strings"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	imagetypes "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"

	"github.com/devcontools/devcon/internal/image"
)

// Client manages Docker container operations
type Client struct {
	cli *client.Client
}

// NewClient creates a Docker client from the environment and verifies the
// daemon is reachable.
func NewClient(ctx context.Context) (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Docker: %w", err)
	}

	return &Client{cli: cli}, nil
}

// Close closes the Docker client
func (c *Client) Close() error {
	return c.cli.Close()
}

// FindOwned returns the container with the given owner label and exact
// name, or nil when none exists.
func (c *Client) FindOwned(ctx context.Context, ownerLabel, name string) (*Info, error) {
	infos, err := c.ListOwned(ctx, ownerLabel)
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if info.Name == name {
			return &info, nil
		}
	}
	return nil, nil
}

// ListOwned returns all containers (running or not) carrying the owner
// label.
func (c *Client) ListOwned(ctx context.Context, ownerLabel string) ([]Info, error) {
	containers, err := c.cli.ContainerList(ctx, containertypes.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("label", ownerLabel),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	infos := make([]Info, 0, len(containers))
	for _, ctr := range containers {
		name := ""
		if len(ctr.Names) > 0 {
			name = strings.TrimPrefix(ctr.Names[0], "/")
		}
		infos = append(infos, Info{
			ID:     ctr.ID,
			Name:   name,
			Image:  ctr.Image,
			State:  ctr.State,
			Status: ctr.Status,
			Labels: ctr.Labels,
		})
	}
	return infos, nil
}

// Create creates a container without starting it.
func (c *Client) Create(ctx context.Context, spec CreateSpec) (string, error) {
	containerConfig, hostConfig := c.buildConfigs(spec)

	resp, err := c.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	return resp.ID, nil
}

// Start starts a created or stopped container.
func (c *Client) Start(ctx context.Context, id string) error {
	if err := c.cli.ContainerStart(ctx, id, containertypes.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

// Stop stops a container with the given grace period in seconds.
func (c *Client) Stop(ctx context.Context, id string, timeoutSeconds int) error {
	if err := c.cli.ContainerStop(ctx, id, containertypes.StopOptions{Timeout: &timeoutSeconds}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Remove removes a container.
func (c *Client) Remove(ctx context.Context, id string, force bool) error {
	if err := c.cli.ContainerRemove(ctx, id, containertypes.RemoveOptions{Force: force}); err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// ImageExists checks if an image exists locally.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := c.cli.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Login validates a credential against a registry host.
func (c *Client) Login(ctx context.Context, host string, cred image.Credential) error {
	_, err := c.cli.RegistryLogin(ctx, registry.AuthConfig{
		Username:      cred.Username,
		Password:      cred.Password,
		ServerAddress: host,
	})
	return err
}

// Pull fetches an image reference, draining the progress stream. A nil
// credential pulls anonymously.
func (c *Client) Pull(ctx context.Context, ref string, cred *image.Credential) error {
	opts := imagetypes.PullOptions{}
	if cred != nil {
		encoded, err := registry.EncodeAuthConfig(registry.AuthConfig{
			Username: cred.Username,
			Password: cred.Password,
		})
		if err != nil {
			return fmt.Errorf("failed to encode registry auth: %w", err)
		}
		opts.RegistryAuth = encoded
	}

	reader, err := c.cli.ImagePull(ctx, ref, opts)
	if err != nil {
		return err
	}
	defer reader.Close()

	// The pull completes only once the stream is consumed.
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (c *Client) buildConfigs(spec CreateSpec) (*containertypes.Config, *containertypes.HostConfig) {
	containerConfig := &containertypes.Config{
		Image:        spec.Image,
		Cmd:          spec.Cmd,
		Env:          spec.Env,
		WorkingDir:   spec.WorkDir,
		User:         spec.User,
		Labels:       spec.Labels,
		Tty:          spec.Tty,
		OpenStdin:    spec.Interactive,
		AttachStdin:  spec.Interactive,
		AttachStdout: true,
		AttachStderr: true,
	}

	var mountList []mount.Mount
	for _, m := range spec.Mounts {
		mountList = append(mountList, mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	var devices []containertypes.DeviceMapping
	for _, d := range spec.Devices {
		devices = append(devices, containertypes.DeviceMapping{
			PathOnHost:        d,
			PathInContainer:   d,
			CgroupPermissions: "rwm",
		})
	}

	hostConfig := &containertypes.HostConfig{
		Mounts:      mountList,
		NetworkMode: containertypes.NetworkMode(spec.Network),
		Privileged:  spec.Privileged,
		AutoRemove:  spec.AutoRemove,
		ShmSize:     spec.ShmSize,
		Resources: containertypes.Resources{
			Devices: devices,
		},
	}

	return containerConfig, hostConfig
}
