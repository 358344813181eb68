package npm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

const nodeModulesSegment = "node_modules/"

// packageLock covers lockfileVersion 1 ("dependencies") and 2/3 ("packages").
// Version 2 files carry both sections; entries are de-duplicated.
type packageLock struct {
	LockfileVersion int                       `json:"lockfileVersion"`
	Packages        map[string]lockPackage    `json:"packages"`
	Dependencies    map[string]lockDependency `json:"dependencies"`
}

type lockPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Link    bool   `json:"link"`
}

type lockDependency struct {
	Version      string                    `json:"version"`
	Dependencies map[string]lockDependency `json:"dependencies"`
}

// PackageLockParserRepository reads resolved versions from package-lock.json
// (and npm-shrinkwrap.json, which shares the schema).
type PackageLockParserRepository struct{}

// NewPackageLockParserRepository creates the package-lock.json parser.
func NewPackageLockParserRepository() repositories.ManifestParserRepository {
	return &PackageLockParserRepository{}
}

func (p *PackageLockParserRepository) Format() entities.FileFormat {
	return entities.FormatLockJSON
}

func (p *PackageLockParserRepository) Parse(
	content []byte,
	sourcePath string,
) ([]entities.ManifestEntry, error) {
	var lock packageLock
	if err := json.Unmarshal(content, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", sourcePath, err)
	}

	set := newEntrySet(sourcePath)
	for _, key := range sortedKeys(lock.Packages) {
		pkg := lock.Packages[key]
		if pkg.Link || pkg.Version == "" {
			continue
		}
		name := packageNameFromKey(key, pkg.Name)
		set.add(name, pkg.Version)
	}
	collectDependencies(set, lock.Dependencies)

	return set.list(), nil
}

// packageNameFromKey turns "node_modules/a/node_modules/@scope/b" into
// "@scope/b". Keys outside node_modules are workspace folders; they are only
// named when the entry declares a name. The root key "" is never named.
func packageNameFromKey(key, declared string) string {
	if key == "" {
		return ""
	}
	if idx := strings.LastIndex(key, nodeModulesSegment); idx >= 0 {
		return key[idx+len(nodeModulesSegment):]
	}
	return declared
}

// collectDependencies walks the nested lockfileVersion 1 tree.
func collectDependencies(set *entrySet, dependencies map[string]lockDependency) {
	for _, name := range sortedKeys(dependencies) {
		dep := dependencies[name]
		set.add(name, dep.Version)
		collectDependencies(set, dep.Dependencies)
	}
}
