package util

import "strings"

// ValidServiceID reports whether id is usable as a single directory name
// under the services root.
func ValidServiceID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00")
}
