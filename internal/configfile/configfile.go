// Package configfile locates YAML configuration files shared by the runtime
// packages.
package configfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirEnv names an extra directory searched before the defaults.
const DirEnv = "FUNCTION_CONFIG_DIR"

// Dirs returns the directories searched, in order: $FUNCTION_CONFIG_DIR, the
// working directory, then the directory of the executable.
func Dirs() []string {
	var dirs []string
	if dir := os.Getenv(DirEnv); dir != "" {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, ".")
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Find returns the first candidate that exists as a regular file in Dirs.
func Find(candidates ...string) (string, error) {
	for _, dir := range Dirs() {
		for _, rel := range candidates {
			p := filepath.FromSlash(rel)
			if dir != "." {
				p = filepath.Join(dir, p)
			}
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("config not found (expected one of %v)", candidates)
}
