package config

// Registry defaults
const (
	DefaultRegistryHost     = "registry.lab.internal:5000"
	DefaultReleaseRepo      = "tools"
	DefaultDevRepo          = "tools-dev"
	DefaultRegistryUser     = "readonly"
	DefaultRegistryPassword = "readonly"
)

// Image defaults
const (
	DefaultImageVersion = "latest"
)

// Host path defaults
const (
	DefaultXSocketDir = "/tmp/.X11-unix"
)

// Container-side mount points
const (
	ContainerSSHKeysDir = "/home/dev/.ssh"
	ContainerXAuthFile  = "/home/dev/.Xauthority"
	ContainerWorkDir    = "/work"
)
