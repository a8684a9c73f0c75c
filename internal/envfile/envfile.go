// Package envfile loads gpp settings from dotenv-style files.
//
// Only keys carrying the requested prefix are applied, so a project .env
// full of application secrets never leaks into the gpp process. Variables
// already present in the environment win over file values.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one KEY=VALUE assignment read from a file.
type Entry struct {
	Key   string
	Value string
}

// Load applies the entries of path whose key starts with prefix and that
// are not already set. It returns the keys that were applied. A missing
// file is not an error.
func Load(path, prefix string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	var applied []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Key, prefix) {
			continue
		}
		if _, set := os.LookupEnv(e.Key); set {
			continue
		}
		if err := os.Setenv(e.Key, e.Value); err != nil {
			return applied, fmt.Errorf("setting %s: %w", e.Key, err)
		}
		applied = append(applied, e.Key)
	}
	return applied, nil
}

// LoadFiles calls Load for each path in order. Earlier files win because
// Load never overwrites a key that is already set.
func LoadFiles(prefix string, paths ...string) ([]string, error) {
	var applied []string
	for _, p := range paths {
		keys, err := Load(p, prefix)
		applied = append(applied, keys...)
		if err != nil {
			return applied, err
		}
	}
	return applied, nil
}

// Parse reads dotenv lines from r. Blank lines, comments and lines without
// '=' are skipped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if e, ok := parseLine(line); ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseLine splits KEY=VALUE, dropping an optional "export " prefix and one
// pair of matching quotes around the value.
func parseLine(line string) (Entry, bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return Entry{}, false
	}
	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	if key == "" {
		return Entry{}, false
	}
	value = strings.TrimSpace(value)
	if n := len(value); n >= 2 {
		if (value[0] == '"' && value[n-1] == '"') || (value[0] == '\'' && value[n-1] == '\'') {
			value = value[1 : n-1]
		}
	}
	return Entry{Key: key, Value: value}, true
}
