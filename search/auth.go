package search

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bgentry/go-netrc/netrc"
)

// Authenticator attaches credentials to an outgoing search request.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: a missing credential source is not an error. On error the caller
//     sends the request unauthenticated.
type Authenticator interface {
	Authenticate(req *http.Request) error
}

// BasicAuth is an explicit user/token pair.
type BasicAuth struct {
	Username string
	Token    string
}

// Authenticate sets HTTP basic auth on req.
func (a BasicAuth) Authenticate(req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Token)
	return nil
}

// NetrcAuth looks up credentials for the request host in a netrc file.
// It matches what curl does when no credentials are configured explicitly.
type NetrcAuth struct {
	// Path is the netrc file. Empty means $NETRC, then ~/.netrc.
	Path string
}

// Authenticate sets basic auth from the matching machine entry, if any.
func (a NetrcAuth) Authenticate(req *http.Request) error {
	path := a.path()
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("search: stat netrc: %w", err)
	}

	m, err := netrc.FindMachine(path, req.URL.Hostname())
	if err != nil {
		return fmt.Errorf("search: read netrc %s: %w", path, err)
	}
	if m == nil || m.Login == "" {
		return nil
	}
	req.SetBasicAuth(m.Login, m.Password)
	return nil
}

func (a NetrcAuth) path() string {
	if a.Path != "" {
		return a.Path
	}
	if p := os.Getenv("NETRC"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

// NewAuthenticator returns BasicAuth when both user and token are set, and
// NetrcAuth otherwise.
func NewAuthenticator(user, token, netrcPath string) Authenticator {
	if user != "" && token != "" {
		return BasicAuth{Username: user, Token: token}
	}
	return NetrcAuth{Path: netrcPath}
}

var (
	_ Authenticator = BasicAuth{}
	_ Authenticator = NetrcAuth{}
)
