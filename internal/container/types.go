package container

import (
	"github.com/devcontools/devcon/internal/mounts"
)

// CreateSpec configures a container creation.
type CreateSpec struct {
	Name   string
	Image  string
	Cmd    []string
	Env    []string
	Labels map[string]string

	WorkDir string
	User    string
	Mounts  []mounts.Mapping

	Devices    []string
	Privileged bool
	Network    string
	ShmSize    int64

	AutoRemove  bool
	Tty         bool
	Interactive bool
}

// ExecSpec configures a command execution inside a running container.
type ExecSpec struct {
	Cmd     []string
	User    string
	WorkDir string
	Env     []string
	Tty     bool
}

// Info summarizes a container owned by this tool.
type Info struct {
	ID     string
	Name   string
	Image  string
	State  string
	Status string
	Labels map[string]string
}

// Running reports whether the container is currently running.
func (i Info) Running() bool {
	return i.State == "running"
}
