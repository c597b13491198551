// Package image resolves logical image aliases to pullable references.
//
// An alias expands to an ordered candidate list: the release repository
// first, then the development repository. An explicit path override
// short-circuits to a single candidate. Resolution attempts candidates in
// order and stops at the first successful pull.
package image

import (
	"fmt"

	"github.com/distribution/reference"

	"github.com/devcontools/devcon/internal/config"
)

// Candidate is one fully-qualified, tagged image reference considered
// during resolution.
type Candidate struct {
	// Host is the registry host requiring login before pull. Empty when
	// the reference resolves without an authentication step (local image
	// or default registry).
	Host string

	// Ref is the complete image reference including tag.
	Ref string
}

// Request describes how the image was selected on the command line.
type Request struct {
	// Alias is the logical image name; ignored when ExplicitPath is set.
	Alias string

	// ExplicitPath is a fully-qualified image path overriding alias
	// resolution. It becomes the sole candidate.
	ExplicitPath string

	// Version is the image tag. Empty means the configured default.
	Version string
}

// Candidates expands a request into its ordered candidate list.
func Candidates(req Request, reg config.RegistryConfig) ([]Candidate, error) {
	version := req.Version
	if version == "" {
		version = config.DefaultImageVersion
	}

	if req.ExplicitPath != "" {
		c, err := explicitCandidate(req.ExplicitPath, version)
		if err != nil {
			return nil, err
		}
		return []Candidate{c}, nil
	}

	if req.Alias == "" {
		return nil, fmt.Errorf("no image alias or path given")
	}

	return []Candidate{
		{Host: reg.Host, Ref: fmt.Sprintf("%s/%s/%s:%s", reg.Host, reg.ReleaseRepo, req.Alias, version)},
		{Host: reg.Host, Ref: fmt.Sprintf("%s/%s/%s:%s", reg.Host, reg.DevRepo, req.Alias, version)},
	}, nil
}

func explicitCandidate(path, version string) (Candidate, error) {
	named, err := reference.ParseNormalizedNamed(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("invalid image path %q: %w", path, err)
	}

	// Append the requested tag only when the path carries none.
	if _, tagged := named.(reference.Tagged); !tagged {
		if _, digested := named.(reference.Digested); !digested {
			withTag, err := reference.WithTag(named, version)
			if err != nil {
				return Candidate{}, fmt.Errorf("invalid image tag %q: %w", version, err)
			}
			named = withTag
		}
	}

	host := reference.Domain(named)
	if host == "docker.io" {
		// Default-registry references pull anonymously; no login step.
		host = ""
	}

	return Candidate{Host: host, Ref: reference.FamiliarString(named)}, nil
}
