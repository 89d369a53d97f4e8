package quadlet

// =============================================================================
// Conversion Options and Result
// =============================================================================

// Options control a single conversion.
type Options struct {
	// ProjectName is the resolved stack name. It names the podman network,
	// the generated attribute paths, and the stack directory under
	// /etc/stacks.
	ProjectName string

	// Suggestions extends or overrides the built-in variable suggestion
	// table. Values are Nix expressions inserted verbatim into the let
	// bindings, so literals must arrive pre-quoted.
	Suggestions map[string]string

	// Relabel controls the ":z" SELinux suffix applied to two-part volume
	// mounts without an explicit access mode.
	Relabel bool
}

// Result is the outcome of one conversion.
type Result struct {
	// Output is the complete module fragment, without a trailing newline.
	Output string

	// Variables lists every placeholder discovered in the document, in
	// first-appearance order, with its suggested binding.
	Variables *VariableTable

	// Warnings describe entries that were passed through rather than
	// translated.
	Warnings []string
}

// =============================================================================
// Target Platform Conventions
// =============================================================================

const (
	// stackPathVar is the well-known variable every generated fragment
	// binds to the stack directory.
	stackPathVar = "STACK_PATH"

	// stackPathTemplate is the host directory backing a stack's state.
	stackPathTemplate = "/etc/stacks/%s"

	// envFileSecretExpr replaces compose env_file entries: runtime
	// environment files are expected to be sops-managed secrets.
	envFileSecretExpr = "config.sops.secrets.envFile.path"

	// updateLabel opts every container into watchtower-style update checks
	// restricted to semver tags.
	updateLabel = `wud.tag.include=^v\\d+\\.\\d+\\.\\d+$`
)
