package entities

import "errors"

var (
	// ErrInvalidPackageIdentifier is returned when a "name@version" line cannot be split.
	ErrInvalidPackageIdentifier = errors.New("invalid package identifier")
	// ErrNoTargetPackages is returned when the packages file holds no usable line.
	ErrNoTargetPackages = errors.New("no target packages configured")
	// ErrConfiguration wraps every problem found while loading settings.
	ErrConfiguration = errors.New("configuration error")
)
