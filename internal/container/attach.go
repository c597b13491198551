package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/moby/term"
)

// RunAttached creates and starts a container, streams its output to the
// invoking terminal and returns the container's exit code.
func (c *Client) RunAttached(ctx context.Context, spec CreateSpec) (int, error) {
	id, err := c.Create(ctx, spec)
	if err != nil {
		return 0, err
	}

	attachResp, err := c.cli.ContainerAttach(ctx, id, containertypes.AttachOptions{
		Stream: true,
		Stdin:  spec.Interactive,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attachResp.Close()

	outputDone := make(chan error, 1)
	go func() {
		var err error
		if spec.Tty {
			_, err = io.Copy(os.Stdout, attachResp.Reader)
		} else {
			_, err = stdcopy.StdCopy(os.Stdout, os.Stderr, attachResp.Reader)
		}
		outputDone <- err
	}()

	// Register the wait before starting so a fast auto-removed container
	// cannot exit unobserved.
	condition := containertypes.WaitConditionNotRunning
	if spec.AutoRemove {
		condition = containertypes.WaitConditionNextExit
	}
	statusCh, errCh := c.cli.ContainerWait(ctx, id, condition)

	if err := c.Start(ctx, id); err != nil {
		return 0, err
	}

	if spec.Tty && term.IsTerminal(os.Stdin.Fd()) {
		restore, err := c.rawTerminal(ctx, func(ctx context.Context, height, width uint) {
			_ = c.cli.ContainerResize(ctx, id, containertypes.ResizeOptions{Height: height, Width: width})
		})
		if err != nil {
			return 0, err
		}
		defer restore()
	}

	if spec.Interactive {
		go func() {
			_, _ = io.Copy(attachResp.Conn, os.Stdin)
			_ = attachResp.CloseWrite()
		}()
	}

	select {
	case err := <-errCh:
		<-outputDone
		if err != nil && ctx.Err() == nil {
			return 0, fmt.Errorf("error waiting for container: %w", err)
		}
		return 0, ctx.Err()
	case status := <-statusCh:
		<-outputDone
		return int(status.StatusCode), nil
	case <-ctx.Done():
		// Interrupted; stop the container and report cancellation.
		stopCtx := context.Background()
		timeout := 5
		_ = c.cli.ContainerStop(stopCtx, id, containertypes.StopOptions{Timeout: &timeout})
		return 0, ctx.Err()
	}
}

// Exec runs a command inside an existing container and returns its exit
// code. With spec.Tty the invoking terminal is switched to raw mode and
// stdin is attached.
func (c *Client) Exec(ctx context.Context, id string, spec ExecSpec) (int, error) {
	execResp, err := c.cli.ContainerExecCreate(ctx, id, containertypes.ExecOptions{
		User:         spec.User,
		Cmd:          spec.Cmd,
		WorkingDir:   spec.WorkDir,
		Env:          spec.Env,
		Tty:          spec.Tty,
		AttachStdin:  spec.Tty,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create exec: %w", err)
	}

	attachResp, err := c.cli.ContainerExecAttach(ctx, execResp.ID, containertypes.ExecStartOptions{Tty: spec.Tty})
	if err != nil {
		return 0, fmt.Errorf("failed to attach exec: %w", err)
	}
	defer attachResp.Close()

	if spec.Tty && term.IsTerminal(os.Stdin.Fd()) {
		restore, err := c.rawTerminal(ctx, func(ctx context.Context, height, width uint) {
			_ = c.cli.ContainerExecResize(ctx, execResp.ID, containertypes.ResizeOptions{Height: height, Width: width})
		})
		if err != nil {
			return 0, err
		}
		defer restore()

		go func() {
			_, _ = io.Copy(attachResp.Conn, os.Stdin)
			_ = attachResp.CloseWrite()
		}()
	}

	if spec.Tty {
		_, err = io.Copy(os.Stdout, attachResp.Reader)
	} else {
		_, err = stdcopy.StdCopy(os.Stdout, os.Stderr, attachResp.Reader)
	}
	if err != nil && ctx.Err() == nil {
		return 0, fmt.Errorf("failed to stream exec output: %w", err)
	}

	inspectResp, err := c.cli.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect exec: %w", err)
	}
	return inspectResp.ExitCode, nil
}

// rawTerminal switches stdin to raw mode, performs an initial resize and
// keeps the remote TTY sized on SIGWINCH. The returned function restores
// the terminal.
func (c *Client) rawTerminal(ctx context.Context, resize func(ctx context.Context, height, width uint)) (func(), error) {
	c.doResize(ctx, resize)

	state, err := term.SetRawTerminal(os.Stdin.Fd())
	if err != nil {
		return nil, fmt.Errorf("failed to set raw terminal: %w", err)
	}

	monitorCtx, cancel := context.WithCancel(ctx)
	go c.monitorTtySize(monitorCtx, resize)

	return func() {
		cancel()
		_ = term.RestoreTerminal(os.Stdin.Fd(), state)
	}, nil
}

func (c *Client) doResize(ctx context.Context, resize func(ctx context.Context, height, width uint)) {
	winsize, err := term.GetWinsize(os.Stdout.Fd())
	if err != nil {
		return
	}
	resize(ctx, uint(winsize.Height), uint(winsize.Width))
}

func (c *Client) monitorTtySize(ctx context.Context, resize func(ctx context.Context, height, width uint)) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-sigCh:
			c.doResize(ctx, resize)
		case <-ctx.Done():
			return
		}
	}
}
