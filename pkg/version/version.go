package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// Version is the release tag baked into both binaries
var Version = strings.TrimSpace(raw)

// Get returns the current version of the application
func Get() string {
	return Version
}

// UserAgent is sent by techminectl on every request
func UserAgent() string {
	return "techminectl/" + Version
}
