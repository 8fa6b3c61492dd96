package provider

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRepository is returned for identifiers not of the form owner/name.
var ErrInvalidRepository = errors.New("invalid repository")

// Repository identifies a repository on a provider.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses "owner/name". GitLab groups may nest, so everything
// before the last slash is the owner.
func ParseRepository(fullName string) (Repository, error) {
	fullName = strings.Trim(strings.TrimSpace(fullName), "/")
	i := strings.LastIndex(fullName, "/")
	if i <= 0 || i == len(fullName)-1 {
		return Repository{}, fmt.Errorf("%w: %q", ErrInvalidRepository, fullName)
	}
	return Repository{Owner: fullName[:i], Name: fullName[i+1:]}, nil
}

// FullName returns owner/name.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

func (r Repository) String() string {
	return r.FullName()
}
