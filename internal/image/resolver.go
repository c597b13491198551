package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/devcontools/devcon/internal/ui"
)

// Credential is a registry username/password pair.
type Credential struct {
	Username string
	Password string
}

// Registry is the slice of the container runtime the resolver needs.
type Registry interface {
	// Login validates a credential against a registry host.
	Login(ctx context.Context, host string, cred Credential) error

	// Pull fetches an image reference. A nil credential pulls anonymously.
	Pull(ctx context.Context, ref string, cred *Credential) error

	// ImageExists reports whether the reference is already present locally.
	ImageExists(ctx context.Context, ref string) (bool, error)
}

// CredentialFunc supplies a credential for a registry host, typically by
// prompting the user.
type CredentialFunc func(host string) (Credential, error)

// Resolver attempts candidates in order until one pulls successfully.
type Resolver struct {
	Registry Registry

	// InternalHost is the registry whose embedded read-only credential is
	// used without prompting.
	InternalHost string
	InternalCred Credential

	// Credentials supplies credentials for any other host. Nil means such
	// hosts fail resolution instead of prompting (batch mode).
	Credentials CredentialFunc
}

// ResolutionError reports that no candidate could be pulled.
type ResolutionError struct {
	Refs []string
	Last error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("no image could be resolved from: %s", strings.Join(e.Refs, ", "))
	if e.Last != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Last)
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Last }

// Resolve returns the first candidate that pulls successfully. Candidates
// without a registry host are satisfied by a local image when present.
func (r *Resolver) Resolve(ctx context.Context, candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, &ResolutionError{}
	}

	var refs []string
	var lastErr error
	for _, c := range candidates {
		refs = append(refs, c.Ref)

		if err := r.attempt(ctx, c); err != nil {
			if ctx.Err() != nil {
				return Candidate{}, ctx.Err()
			}
			ui.Warn("image %s unavailable: %v", c.Ref, err)
			lastErr = err
			continue
		}
		return c, nil
	}

	return Candidate{}, &ResolutionError{Refs: refs, Last: lastErr}
}

func (r *Resolver) attempt(ctx context.Context, c Candidate) error {
	if c.Host == "" {
		ok, err := r.Registry.ImageExists(ctx, c.Ref)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		ui.Info("pulling %s", c.Ref)
		return r.Registry.Pull(ctx, c.Ref, nil)
	}

	cred, err := r.credentialFor(c.Host)
	if err != nil {
		return err
	}
	if err := r.Registry.Login(ctx, c.Host, cred); err != nil {
		return fmt.Errorf("login to %s failed: %w", c.Host, err)
	}

	ui.Info("pulling %s", c.Ref)
	return r.Registry.Pull(ctx, c.Ref, &cred)
}

func (r *Resolver) credentialFor(host string) (Credential, error) {
	if host == r.InternalHost {
		return r.InternalCred, nil
	}
	if r.Credentials == nil {
		return Credential{}, fmt.Errorf("no credentials available for registry %s", host)
	}
	return r.Credentials(host)
}
