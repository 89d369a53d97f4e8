package quadlet

import (
	"fmt"
	"path/filepath"
)

// =============================================================================
// Naming Functions
// =============================================================================

// ProjectName resolves the stack name for a conversion. An explicit override
// wins, then the document's top-level name, then the name of the directory
// containing the compose file.
//
// Example:
//
//	ProjectName("", "immich", "/srv/stacks/photos/compose.yaml")
//	// Returns: "immich"
//
//	ProjectName("", "", "/srv/stacks/photos/compose.yaml")
//	// Returns: "photos"
func ProjectName(override, docName, composePath string) string {
	if override != "" {
		return override
	}
	if docName != "" {
		return docName
	}
	return filepath.Base(filepath.Dir(composePath))
}

// StackPath returns the host directory backing a stack's state. Managed
// volumes and the STACK_PATH binding both live under it.
func StackPath(project string) string {
	return fmt.Sprintf(stackPathTemplate, project)
}
