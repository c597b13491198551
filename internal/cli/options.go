package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devcontools/devcon/internal/container"
	"github.com/devcontools/devcon/internal/image"
	"github.com/devcontools/devcon/internal/session"
	"github.com/devcontools/devcon/internal/ui"
)

// addLaunchFlags registers the full option set, valid for create and run.
// Per-command registration is the option allow-list: a flag not registered
// here is rejected by the parser before anything touches Docker.
func addLaunchFlags(cmd *cobra.Command) {
	addExecFlags(cmd)

	f := cmd.Flags()
	f.StringP("env-vars", "e", "", "environment variables K=V[;K=V...]")
	f.StringP("map-locations", "m", "", "volume mappings host:container[:ro][;...]")
	f.StringP("ssh-keys-dir", "s", "", "host directory with ssh keys to mount read-only")
	f.StringP("work-dir", "w", "", "host work directory (default: your home directory)")
	f.StringP("xauth-dir", "x", "", "directory containing the X authority file")
	f.StringP("xsocket-dir", "X", "", "X11 socket directory (default /tmp/.X11-unix)")
}

// addExecFlags registers the reduced option set valid for exec: volume,
// environment and work-dir options are create/run-only.
func addExecFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("batch", "b", false, "non-interactive mode, no TTY")
	f.StringP("cmd", "c", "", "command to run in the container")
	f.StringP("image", "d", "", "image alias selecting the environment profile")
	f.StringP("name", "n", "", "extra name component for parallel containers")
	f.StringP("docker-path", "p", "", "explicit image path overriding alias resolution")
	f.StringP("docker-image-ver", "v", "", "image version tag (default \"latest\")")
}

// gatherOptions reads whichever of the option flags the command registered.
func gatherOptions(cmd *cobra.Command) session.Options {
	return session.Options{
		Batch:      getBool(cmd, "batch"),
		Cmd:        getString(cmd, "cmd"),
		Alias:      getString(cmd, "image"),
		Name:       getString(cmd, "name"),
		ImagePath:  getString(cmd, "docker-path"),
		Version:    getString(cmd, "docker-image-ver"),
		EnvSpec:    getString(cmd, "env-vars"),
		MapSpec:    getString(cmd, "map-locations"),
		SSHKeysDir: getString(cmd, "ssh-keys-dir"),
		WorkDir:    getString(cmd, "work-dir"),
		XAuthDir:   getString(cmd, "xauth-dir"),
		XSocketDir: getString(cmd, "xsocket-dir"),
	}
}

// requireSelection enforces that an image alias or explicit path was
// given. Like a rejected flag, the failure prints the command's usage
// before anything touches Docker.
func requireSelection(cmd *cobra.Command, opts session.Options) error {
	if opts.Alias == "" && opts.ImagePath == "" {
		cmd.PrintErrln(cmd.UsageString())
		return fmt.Errorf("an image alias (--image) or explicit path (--docker-path) is required")
	}
	return nil
}

func getString(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func getBool(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}

// newSession connects to Docker and builds the session manager. Batch mode
// disables interactive registry login.
func newSession(ctx context.Context, batch bool) (*session.Manager, *container.Client, error) {
	client, err := container.NewClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	var creds image.CredentialFunc
	if !batch {
		creds = promptCredentials
	}

	mgr, err := session.NewManager(client, cfg, creds)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return mgr, client, nil
}

func promptCredentials(host string) (image.Credential, error) {
	ui.Info("login required for registry %s", host)
	username := ui.AskString("username")
	if username == "" {
		return image.Credential{}, fmt.Errorf("no username given for %s", host)
	}
	password := ui.AskPassword("password")
	return image.Credential{Username: username, Password: password}, nil
}

// commandContext returns a context cancelled on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}
