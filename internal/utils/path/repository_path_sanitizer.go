package pathutils

import (
	"strings"
)

const (
	// CurrentDirectoryPath is the repository path used when none is configured.
	CurrentDirectoryPath = "."
)

// RepositoryPathSanitizer normalizes the repository path given on the command line or in configuration.
type RepositoryPathSanitizer struct {
	homeExpander *HomeExpander
}

// NewRepositoryPathSanitizer constructs a sanitizer backed by the operating system home lookup.
func NewRepositoryPathSanitizer() *RepositoryPathSanitizer {
	return NewRepositoryPathSanitizerWithExpander(nil)
}

// NewRepositoryPathSanitizerWithExpander constructs a sanitizer using the provided expander.
func NewRepositoryPathSanitizerWithExpander(homeExpander *HomeExpander) *RepositoryPathSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RepositoryPathSanitizer{homeExpander: homeExpander}
}

// Sanitize trims whitespace and expands the home directory; a blank path becomes the current directory.
func (sanitizer *RepositoryPathSanitizer) Sanitize(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return CurrentDirectoryPath
	}
	if sanitizer == nil {
		return trimmedPath
	}
	return sanitizer.homeExpander.Expand(trimmedPath)
}
