package session

import "fmt"

// AlreadyExistsError is returned when create or run would clash with an
// existing container of the same identity.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("container %s already exists; use exec to enter it or clean to remove it", e.Name)
}

// NotFoundError is returned when exec finds no container matching the
// requested identity.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no container %s found; create it first", e.Name)
}

// ExitError carries a non-zero exit status from a container or exec back
// to the process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exited with status %d", e.Code)
}
