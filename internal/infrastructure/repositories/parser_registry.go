package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// ParserRegistry manages the manifest parser of every supported format.
type ParserRegistry struct {
	parsers map[entities.FileFormat]domainRepos.ManifestParserRepository
}

// NewParserRegistry creates an empty parser registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		parsers: make(map[entities.FileFormat]domainRepos.ManifestParserRepository),
	}
}

// Register adds a parser under its format.
func (r *ParserRegistry) Register(p domainRepos.ManifestParserRepository) {
	r.parsers[p.Format()] = p
}

// Get returns the parser for format.
func (r *ParserRegistry) Get(format entities.FileFormat) (domainRepos.ManifestParserRepository, error) {
	parser, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domainRepos.ErrUnsupportedFormat, format)
	}
	return parser, nil
}

// ForPath returns the parser for the manifest at filePath, by base name.
func (r *ParserRegistry) ForPath(filePath string) (domainRepos.ManifestParserRepository, error) {
	format, ok := entities.FormatForPath(filePath)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domainRepos.ErrUnsupportedFormat, filePath)
	}
	return r.Get(format)
}

// Formats returns the registered formats, sorted.
func (r *ParserRegistry) Formats() []entities.FileFormat {
	formats := make([]entities.FileFormat, 0, len(r.parsers))
	for format := range r.parsers {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
