package helper

import (
	"os"
	"path/filepath"
)

const appDir = "techmine"

// GetCfgPath returns the path to the configuration file.
//
// Priority:
// 1. If filename is an absolute path, return it directly.
// 2. Check ./{filename} and ./configs/{filename}
// 3. Check the user config dir, e.g. ~/.config/techmine/{filename}
// 4. Otherwise, fallback to /etc/techmine/{filename}
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	for _, dir := range candidateDirs() {
		if p := existing(filepath.Join(dir, filename)); p != "" {
			return p
		}
	}

	return filepath.Join("/etc", appDir, filename)
}

// UserDataPath returns {user config dir}/techmine/{name}. It is where
// techminectl keeps its session.
func UserDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDir, name)
}

func candidateDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil && wd != "" {
		dirs = append(dirs, wd, filepath.Join(wd, "configs"))
	}
	if ucd, err := os.UserConfigDir(); err == nil && ucd != "" {
		dirs = append(dirs, filepath.Join(ucd, appDir))
	}
	return dirs
}

func existing(candidate string) string {
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return ""
	}
	return abs
}
