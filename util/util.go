package util

import (
	"os"
	"path/filepath"
	"strings"
)

// StringListContains returns true if the list of strings contains item.
func StringListContains(list []string, item string) bool {
	for i := range list {
		if list[i] == item {
			return true
		}
	}
	return false
}

// UniqueStrings returns the items of list with duplicates removed,
// preserving first-seen order.
func UniqueStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	unique := make([]string, 0, len(list))
	for _, item := range list {
		if !seen[item] {
			seen[item] = true
			unique = append(unique, item)
		}
	}
	return unique
}

// ShortCID abbreviates a CID for log and error messages.
func ShortCID(cid string) string {
	if len(cid) <= 16 {
		return cid
	}
	return cid[:16] + "..."
}

// ExpandTilde expands the leading ~ in a path to the user's home dir.
func ExpandTilde(pathName string) (string, error) {
	if !strings.HasPrefix(pathName, "~") {
		return pathName, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(pathName, "~")), nil
}

// TestsAreRunning returns true when invoked from a go test binary.
// Long loops use this to suppress progress bars under test.
func TestsAreRunning() bool {
	return strings.HasSuffix(os.Args[0], ".test")
}
