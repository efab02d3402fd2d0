package sandbox

import (
	"path"
	"strings"
)

// DefaultWorkdir is the sandbox working directory used when none is configured.
const DefaultWorkdir = "/home/project"

// Relative returns p relative to workdir. Relative inputs are only cleaned.
// An absolute p outside workdir yields a path starting with "..".
func Relative(workdir, p string) string {
	if !path.IsAbs(p) {
		return path.Clean(p)
	}

	base := splitClean(workdir)
	target := splitClean(p)

	common := 0
	for common < len(base) && common < len(target) && base[common] == target[common] {
		common++
	}

	parts := make([]string, 0, len(base)-common+len(target)-common)
	for i := common; i < len(base); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, target[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

// Dir returns the parent directory of p without trailing slashes.
func Dir(p string) string {
	dir := strings.TrimRight(path.Dir(p), "/")
	if dir == "" {
		return "/"
	}
	return dir
}

// Rooted cleans p as if it were absolute and strips the leading slash, so
// "/home/project/a.txt" and "home/project/a.txt" both yield
// "home/project/a.txt" and "../x" yields "x".
func Rooted(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// Join joins sandbox path elements.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// escapes reports whether a cleaned relative path leaves its base.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel)
}

func splitClean(p string) []string {
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(cleaned, "/"), "/")
}
