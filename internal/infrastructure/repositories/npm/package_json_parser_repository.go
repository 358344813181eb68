package npm

import (
	"encoding/json"
	"fmt"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// packageJSON holds the dependency sections of a package.json. Values stay raw
// so a single odd entry (an object, a number) does not fail the whole file.
type packageJSON struct {
	Dependencies         map[string]json.RawMessage `json:"dependencies"`
	DevDependencies      map[string]json.RawMessage `json:"devDependencies"`
	PeerDependencies     map[string]json.RawMessage `json:"peerDependencies"`
	OptionalDependencies map[string]json.RawMessage `json:"optionalDependencies"`
}

// PackageJSONParserRepository reads the dependency ranges of package.json.
type PackageJSONParserRepository struct{}

// NewPackageJSONParserRepository creates the package.json parser.
func NewPackageJSONParserRepository() repositories.ManifestParserRepository {
	return &PackageJSONParserRepository{}
}

func (p *PackageJSONParserRepository) Format() entities.FileFormat {
	return entities.FormatPackageDescriptor
}

// Parse emits one entry per key of every dependency section, keeping the
// specifier verbatim ("^7.24.9" stays "^7.24.9").
func (p *PackageJSONParserRepository) Parse(
	content []byte,
	sourcePath string,
) ([]entities.ManifestEntry, error) {
	var manifest packageJSON
	if err := json.Unmarshal(content, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", sourcePath, err)
	}

	set := newEntrySet(sourcePath)
	for _, section := range []map[string]json.RawMessage{
		manifest.Dependencies,
		manifest.DevDependencies,
		manifest.PeerDependencies,
		manifest.OptionalDependencies,
	} {
		for _, name := range sortedKeys(section) {
			var specifier string
			if err := json.Unmarshal(section[name], &specifier); err != nil {
				logger.Debugf("Skipping %q in %q: specifier is not a string", name, sourcePath)
				continue
			}
			set.add(name, specifier)
		}
	}

	return set.list(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
