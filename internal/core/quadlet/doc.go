// Package quadlet provides pure functions for generating quadlet-nix
// configuration from parsed compose documents.
//
// This package is the functional core of the converter: every function is
// pure (no I/O, no side effects) and works on values from internal/core/compose.
// The imperative shell (cmd/compose-to-quadlet-nix) reads files, calls
// Convert, and writes the result.
//
// # Functions
//
//   - Naming: Resolve the stack name and its host paths (ProjectName, StackPath)
//   - Volumes: Map named volumes to stack-local paths (ResolveVolumes, ConvertMount)
//   - Variables: Collect ${VAR} placeholders and suggest let bindings (DiscoverVariables)
//   - Ports: Apply the loopback publishing default (CoercePublishedPort)
//   - Dependencies: Build the service dependency table (ExtractDependencies)
//   - Rendering: Emit the Nix module fragment (RenderContainer, Convert)
//
// # Usage
//
//	doc, err := compose.Parse(content)
//	if err != nil {
//	    return err
//	}
//	result := quadlet.Convert(doc, quadlet.Options{ProjectName: "immich", Relabel: true})
//	fmt.Println(result.Output)
package quadlet
