package profile

import (
	"fmt"
)

// ProfileError reports an import profile that fails validation.
type ProfileError struct {
	Profile string
	Reason  string
}

func (e *ProfileError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("invalid import profile: %v", e.Reason)
	}
	return fmt.Sprintf("invalid import profile %q: %v", e.Profile, e.Reason)
}

// PathResolutionError reports a source path that could not be resolved.
type PathResolutionError struct {
	Path   string
	Reason string
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve path %q: %v", e.Path, e.Reason)
}

// SchemaError reports an unsupported column type or a cell value that cannot
// be coerced to its declared type.
type SchemaError struct {
	Column string
	Type   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for column %q (%v): %v", e.Column, e.Type, e.Reason)
}
