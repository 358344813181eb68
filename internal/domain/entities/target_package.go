package entities

import (
	"fmt"
	"strings"
)

// TargetPackage is a package pinned to the version the scan is hunting for.
type TargetPackage struct {
	Name    string
	Version string
}

func (t TargetPackage) String() string { return t.Name + "@" + t.Version }

// ParsePackageIdentifier splits "name@version" at the last "@", so scoped
// names such as "@scope/name@1.0.0" keep their leading "@".
func ParsePackageIdentifier(identifier string) (TargetPackage, error) {
	identifier = strings.TrimSpace(identifier)
	idx := strings.LastIndex(identifier, "@")
	if idx <= 0 || idx == len(identifier)-1 {
		return TargetPackage{}, fmt.Errorf("%w: %q", ErrInvalidPackageIdentifier, identifier)
	}

	return TargetPackage{
		Name:    identifier[:idx],
		Version: identifier[idx+1:],
	}, nil
}
