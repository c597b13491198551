// Package identity derives the deterministic container identity used for
// idempotency checks and ownership labelling.
package identity

import (
	"fmt"
	"os"
	"os/user"
	"strings"
)

// Label keys attached to every container this tool creates. list, clean
// and exec scope their queries by LabelOwner.
const (
	LabelOwner = "devcon.owner"
	LabelAlias = "devcon.alias"
	LabelName  = "devcon.name"
)

// CustomAlias is the alias component used when the image was selected by
// an explicit path instead of a logical alias.
const CustomAlias = "custom"

// Identity is the (user, image alias, optional custom name) triple that
// uniquely names a container.
type Identity struct {
	Login string
	Alias string
	Name  string // optional -n suffix
}

// New builds the identity for the invoking user. Alias falls back to
// CustomAlias when empty (explicit --docker-path selection).
func New(alias, name string) (Identity, error) {
	login, err := currentLogin()
	if err != nil {
		return Identity{}, err
	}
	if alias == "" {
		alias = CustomAlias
	}
	return Identity{Login: login, Alias: alias, Name: name}, nil
}

// ContainerName is the dot-joined deterministic container name.
func (id Identity) ContainerName() string {
	parts := []string{id.Login, id.Alias}
	if id.Name != "" {
		parts = append(parts, id.Name)
	}
	return strings.Join(parts, ".")
}

// Labels returns the ownership labels for created containers.
func (id Identity) Labels() map[string]string {
	return map[string]string{
		LabelOwner: id.Login,
		LabelAlias: id.Alias,
		LabelName:  id.ContainerName(),
	}
}

// OwnerLabel returns the label filter selecting all containers created by
// this user.
func (id Identity) OwnerLabel() string {
	return fmt.Sprintf("%s=%s", LabelOwner, id.Login)
}

// ExecUser returns the uid:gid string used to exec as the invoking user
// rather than root.
func ExecUser() string {
	return fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid())
}

func currentLogin() (string, error) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		return sanitize(u.Username), nil
	}
	if name := os.Getenv("USER"); name != "" {
		return sanitize(name), nil
	}
	return "", fmt.Errorf("cannot determine invoking user: %w", err)
}

// sanitize keeps the login usable as a container name component. Domain
// logins like DOMAIN\user appear on some corporate machines.
func sanitize(login string) string {
	login = strings.ToLower(login)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, login)
}
