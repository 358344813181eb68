package repositories

import (
	"errors"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
)

// ErrUnsupportedFormat is returned when no parser handles a manifest format.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

// ManifestParserRepository extracts (package, version) pairs from one manifest format.
type ManifestParserRepository interface {
	// Format returns the manifest format this parser understands.
	Format() entities.FileFormat

	// Parse extracts the entries of content, tagging each with sourcePath.
	// Malformed content returns an error and no entries.
	Parse(content []byte, sourcePath string) ([]entities.ManifestEntry, error)
}
