package identity

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GitUser is the committer identity read from the invoking user's git
// configuration, used to seed git identity inside the container.
type GitUser struct {
	Name  string
	Email string
}

// Env returns the environment variables seeding git identity in the
// container. Empty fields are omitted.
func (g GitUser) Env() map[string]string {
	env := make(map[string]string)
	if g.Name != "" {
		env["GIT_AUTHOR_NAME"] = g.Name
		env["GIT_COMMITTER_NAME"] = g.Name
	}
	if g.Email != "" {
		env["GIT_AUTHOR_EMAIL"] = g.Email
		env["GIT_COMMITTER_EMAIL"] = g.Email
	}
	return env
}

// ReadGitUser reads user.name and user.email from ~/.gitconfig, following
// include.path directives. Missing config is not an error; the zero value
// is returned.
func ReadGitUser() GitUser {
	home, err := os.UserHomeDir()
	if err != nil {
		return GitUser{}
	}
	return readGitUser(filepath.Join(home, ".gitconfig"), home)
}

func readGitUser(gitconfig, home string) GitUser {
	var g GitUser

	visited := make(map[string]bool)
	queue := []string{gitconfig}

	// Bounded walk so cyclic includes cannot loop forever.
	for len(queue) > 0 && len(visited) < 10 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		file, err := os.Open(current)
		if err != nil {
			continue
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if v, ok := configValue(line, "name"); ok && g.Name == "" {
				g.Name = v
			}
			if v, ok := configValue(line, "email"); ok && g.Email == "" {
				g.Email = v
			}
			if v, ok := configValue(line, "path"); ok {
				if strings.HasPrefix(v, "~/") {
					v = filepath.Join(home, v[2:])
				}
				if _, err := os.Stat(v); err == nil {
					queue = append(queue, v)
				}
			}
		}
		_ = file.Close()
	}

	return g
}

func configValue(line, key string) (string, bool) {
	rest, ok := strings.CutPrefix(line, key)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	rest, ok = strings.CutPrefix(rest, "=")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
