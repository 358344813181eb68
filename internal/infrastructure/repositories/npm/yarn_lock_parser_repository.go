package npm

import (
	"fmt"
	"strings"

	"github.com/rios0rios0/pkgscan/internal/domain/entities"
	"github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

const versionKey = "version"

// YarnLockParserRepository reads yarn.lock, both the classic format
// (`version "1.2.3"`) and the berry format (`version: 1.2.3`).
//
// A block starts with a declaration line at column 0:
//
//	"@babel/core@^7.0.0", "@babel/core@^7.12.3":
//	  version "7.27.4"
type YarnLockParserRepository struct{}

// NewYarnLockParserRepository creates the yarn.lock parser.
func NewYarnLockParserRepository() repositories.ManifestParserRepository {
	return &YarnLockParserRepository{}
}

func (p *YarnLockParserRepository) Format() entities.FileFormat {
	return entities.FormatLockText
}

func (p *YarnLockParserRepository) Parse(
	content []byte,
	sourcePath string,
) ([]entities.ManifestEntry, error) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	set := newEntrySet(sourcePath)

	for i, line := range lines {
		if !isDeclaration(line) {
			continue
		}
		names := declarationNames(line)
		if len(names) == 0 {
			continue // e.g. berry's "__metadata:"
		}

		version, found := blockVersion(lines[i+1:])
		if !found {
			return nil, fmt.Errorf(
				"failed to parse %q: block at line %d has no version", sourcePath, i+1,
			)
		}
		for _, name := range names {
			set.add(name, version)
		}
	}

	return set.list(), nil
}

// isDeclaration reports whether line opens a block: it starts at column 0,
// is not a comment, and ends with a colon.
func isDeclaration(line string) bool {
	if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' {
		return false
	}
	return strings.HasSuffix(strings.TrimRight(line, " \t"), ":")
}

// declarationNames returns the distinct package names of a declaration line.
// The name is everything before the last "@" of each specifier, so the scope
// prefix of "@scope/name@^1.0.0" is kept.
func declarationNames(line string) []string {
	line = strings.TrimSuffix(strings.TrimRight(line, " \t"), ":")

	var names []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(line, ",") {
		name := specifierName(strings.Trim(strings.TrimSpace(token), `"'`))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func specifierName(specifier string) string {
	idx := strings.LastIndex(specifier, "@")
	if idx <= 0 {
		return ""
	}
	name := specifier[:idx]

	// Berry protocols may embed a second specifier
	// ("resolve@patch:resolve@npm%3A1.22.8#..."); the name then ends at the
	// first separator after the scope.
	if strings.Contains(name, ":") {
		first := strings.Index(specifier[1:], "@") + 1
		if first <= 0 {
			return ""
		}
		name = specifier[:first]
	}
	return name
}

// blockVersion finds the version field among the indented lines that follow a
// declaration, stopping at the next block.
func blockVersion(lines []string) (string, bool) {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			return "", false
		}

		field := strings.TrimSpace(line)
		if !strings.HasPrefix(field, versionKey) {
			continue
		}
		rest := field[len(versionKey):]
		if rest == "" || (rest[0] != ' ' && rest[0] != ':' && rest[0] != '"') {
			continue // "versions", "versionFoo"
		}

		rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
		version := strings.Trim(rest, `"'`)
		if version != "" {
			return version, true
		}
	}
	return "", false
}
