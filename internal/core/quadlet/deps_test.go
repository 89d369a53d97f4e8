package quadlet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
)

// =============================================================================
// ExtractDependencies Tests
// =============================================================================

func TestExtractDependencies_EveryServiceHasEntry(t *testing.T) {
	services := []compose.Service{
		{Name: "web", DependsOn: []string{"api"}},
		{Name: "api", DependsOn: []string{"db", "cache"}},
		{Name: "db", DependsOn: []string{}},
	}

	deps := ExtractDependencies(services)
	require.Len(t, deps, 3)
	assert.Equal(t, []string{"api"}, deps["web"])
	assert.Equal(t, []string{"db", "cache"}, deps["api"])
	assert.Empty(t, deps["db"])
}

func TestExtractDependencies_NilBecomesEmpty(t *testing.T) {
	deps := ExtractDependencies([]compose.Service{{Name: "solo"}})
	require.NotNil(t, deps["solo"])
	assert.Empty(t, deps["solo"])
}

// =============================================================================
// DependencyUnits Tests
// =============================================================================

func TestDependencyUnits(t *testing.T) {
	units := DependencyUnits([]string{"redis", "database"})
	assert.Equal(t, []string{"redis.service", "database.service"}, units)
}

func TestDependencyUnits_Empty(t *testing.T) {
	assert.Empty(t, DependencyUnits(nil))
}
