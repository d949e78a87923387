package main

import (
	"errors"
	"os"
	"strings"
)

const envProfilesDir = "PROFINFO_DIR"

var errNoProfilesDir = errors.New("--profiles-dir is required unless " + envProfilesDir + " or profiles_dir is set")

// resolveProfilesDir picks the flag (or config) value, then the environment.
func resolveProfilesDir(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envProfilesDir))
	}
	if dir == "" {
		return "", errNoProfilesDir
	}
	return dir, nil
}

// readNames reads one function name per line. Blank lines keep their index.
func readNames(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	names := strings.Split(text, "\n")
	for i, name := range names {
		names[i] = strings.TrimSpace(name)
	}
	return names, nil
}
