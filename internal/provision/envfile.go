package provision

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/compose-spec/compose-go/v2/dotenv"
)

// EnvFileName is read by the compose command from the service directory.
const EnvFileName = ".env"

// EnvFilePath returns the env file location for a service directory.
func EnvFilePath(serviceDir string) string {
	return filepath.Join(serviceDir, EnvFileName)
}

// WriteEnvFile replaces the env file in serviceDir with one KEY=value line
// per entry of vars. Keys are upper-cased, entries with an empty value are
// dropped and lines are sorted by key. Two keys that upper-case to the same
// name are rejected. Values that compose would otherwise interpolate, trim
// or cut at a comment are written double-quoted and escaped.
func WriteEnvFile(serviceDir string, vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for k, v := range vars {
		if v != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	upper := make(map[string]string, len(names))
	origin := make(map[string]string, len(names))
	for _, k := range names {
		key := strings.ToUpper(k)
		if prev, ok := origin[key]; ok {
			return fmt.Errorf("env keys %q and %q both map to %s", prev, k, key)
		}
		origin[key] = k
		upper[key] = vars[k]
	}

	keys := make([]string, 0, len(upper))
	for k := range upper {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, quoteEnvValue(upper[k]))
	}

	path := EnvFilePath(serviceDir)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing env file %s: %w", path, err)
	}
	return nil
}

// quoteEnvValue returns v unchanged when the dotenv parser reads it back
// verbatim, and a double-quoted escaped form otherwise.
func quoteEnvValue(v string) string {
	plain := strings.IndexFunc(v, func(r rune) bool {
		return unicode.IsSpace(r) || !unicode.IsPrint(r) || strings.ContainsRune(`$#"'\`+"`", r)
	}) < 0
	if plain {
		return v
	}
	return `"` + envEscaper.Replace(v) + `"`
}

var envEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
)

// ReadEnvFile parses the env file of serviceDir the way compose does. A
// missing file yields an empty map.
func ReadEnvFile(serviceDir string) (map[string]string, error) {
	path := EnvFilePath(serviceDir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	vars, err := dotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

// RemoveEnvFile deletes the env file of serviceDir. A missing file is not
// an error.
func RemoveEnvFile(serviceDir string) error {
	err := os.Remove(EnvFilePath(serviceDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
