package auth

import "github.com/pkg/errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
)

// Gate allows identities whose role is in a fixed set. Roles do not imply one another.
type Gate struct {
	allowed map[string]struct{}
}

func Authorize(allowed ...string) Gate {
	g := Gate{allowed: make(map[string]struct{}, len(allowed))}
	for _, role := range allowed {
		g.allowed[role] = struct{}{}
	}
	return g
}

func (g Gate) Check(id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if _, ok := g.allowed[id.Role]; !ok {
		return ErrForbidden
	}
	return nil
}
