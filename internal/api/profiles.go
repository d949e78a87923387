package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProfileExtensions are the file suffixes treated as profiling dumps.
var ProfileExtensions = []string{".out", ".prof"}

var errInvalidName = errors.New("invalid profile name")

// DiscoverProfiles lists the dump files directly inside dir, sorted by name.
func DiscoverProfiles(dir string) ([]ProfileEntry, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("profiles directory is empty")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("profiles path is not a directory: %s", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]ProfileEntry, 0, len(ents))
	for _, e := range ents {
		if !e.Type().IsRegular() || !isProfileName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, ProfileEntry{
			Name:    e.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func isProfileName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range ProfileExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// resolveProfile maps a bare file name to a path inside dir.
func resolveProfile(dir, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsRune(name, os.PathSeparator) {
		return "", errInvalidName
	}
	return filepath.Join(dir, name), nil
}
