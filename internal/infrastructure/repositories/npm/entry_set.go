package npm

import "github.com/rios0rios0/pkgscan/internal/domain/entities"

// entrySet collects manifest entries in insertion order, dropping repeated
// (name, version) pairs.
type entrySet struct {
	sourcePath string
	seen       map[string]bool
	entries    []entities.ManifestEntry
}

func newEntrySet(sourcePath string) *entrySet {
	return &entrySet{
		sourcePath: sourcePath,
		seen:       make(map[string]bool),
	}
}

func (s *entrySet) add(name, version string) {
	if name == "" || version == "" {
		return
	}
	key := name + "\x00" + version
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.entries = append(s.entries, entities.ManifestEntry{
		PackageName:      name,
		InstalledVersion: version,
		SourcePath:       s.sourcePath,
	})
}

func (s *entrySet) list() []entities.ManifestEntry {
	if s.entries == nil {
		return []entities.ManifestEntry{}
	}
	return s.entries
}
