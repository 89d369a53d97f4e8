package compose

// =============================================================================
// Document - Main Output Type
// =============================================================================

// Document is an order-preserving representation of a Docker Compose file.
// Services, environment entries, and dependency declarations keep the order
// they appear in so generated output is stable across runs. Placeholder
// references like ${VAR} are kept verbatim; translating them is the
// converter's job, not the parser's.
type Document struct {
	// Name is the top-level "name" field, empty when absent.
	Name     string
	Services []Service
	Volumes  []Volume
}

// =============================================================================
// Service Types
// =============================================================================

// Service represents a single service definition.
type Service struct {
	Name        string
	Image       string
	Ports       []string
	Mounts      []Mount
	EnvFiles    []string
	Environment []EnvVar
	HealthCheck *HealthCheck
	Restart     string
	DependsOn   []string
}

// Mount is one entry of a service volumes list. Short-form entries keep the
// raw "source:target[:options]" string. Long-form (mapping) entries are
// flattened to a flow-style string and flagged so later stages can pass them
// through untouched.
type Mount struct {
	Raw      string
	LongForm bool
}

// EnvVar is a single environment entry. A slice of pairs rather than a map:
// rendering follows declaration order.
type EnvVar struct {
	Key   string
	Value string
}

// HealthCheck represents health check configuration. Argv holds exec-form
// tests ([CMD, curl, ...]), Shell holds string-form tests.
type HealthCheck struct {
	Argv    []string
	Shell   string
	Disable bool
}

// =============================================================================
// Volume Types
// =============================================================================

// Volume represents a top-level named volume declaration.
type Volume struct {
	Name     string
	External bool
}
