package quadlet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
)

// =============================================================================
// ResolveVolumes Tests
// =============================================================================

func TestResolveVolumes_ManagedUnderStackPath(t *testing.T) {
	resolved := ResolveVolumes([]compose.Volume{{Name: "pgdata"}})
	assert.Equal(t, map[string]string{"pgdata": "${STACK_PATH}/pgdata"}, resolved)
}

func TestResolveVolumes_ExternalKeepsName(t *testing.T) {
	resolved := ResolveVolumes([]compose.Volume{{Name: "models", External: true}})
	assert.Equal(t, map[string]string{"models": "models"}, resolved)
}

func TestResolveVolumes_Empty(t *testing.T) {
	resolved := ResolveVolumes(nil)
	assert.Empty(t, resolved)
}

// =============================================================================
// ConvertMount Tests
// =============================================================================

func TestConvertMount_NamedVolumeResolved(t *testing.T) {
	resolved := map[string]string{"data": "${STACK_PATH}/data"}
	got := ConvertMount(compose.Mount{Raw: "data:/var/lib/app"}, resolved, nil, true)
	assert.Equal(t, "${STACK_PATH}/data:/var/lib/app:z", got)
}

func TestConvertMount_ExternalVolumeResolved(t *testing.T) {
	resolved := map[string]string{"models": "models"}
	got := ConvertMount(compose.Mount{Raw: "models:/models"}, resolved, nil, true)
	assert.Equal(t, "models:/models:z", got)
}

func TestConvertMount_UndeclaredVolumeUntouched(t *testing.T) {
	got := ConvertMount(compose.Mount{Raw: "cache:/cache"}, nil, nil, true)
	assert.Equal(t, "cache:/cache:z", got)
}

func TestConvertMount_PlaceholderRewritten(t *testing.T) {
	table := NewVariableTable()
	table.Add("DB_DATA_LOCATION", `"${STACK_PATH}/pgdata"`)

	got := ConvertMount(compose.Mount{Raw: "${DB_DATA_LOCATION:-./pgdata}:/var/lib/postgresql/data"}, nil, table, true)
	assert.Equal(t, "${DB_DATA_LOCATION}:/var/lib/postgresql/data:z", got)
}

func TestConvertMount_OnlyFirstSegmentResolved(t *testing.T) {
	resolved := map[string]string{"data": "${STACK_PATH}/data"}
	got := ConvertMount(compose.Mount{Raw: "other:/srv/data"}, resolved, nil, false)
	assert.Equal(t, "other:/srv/data", got)
}

func TestConvertMount_LongFormPassedThrough(t *testing.T) {
	m := compose.Mount{Raw: "{type: bind, source: ./html, target: /html}", LongForm: true}
	got := ConvertMount(m, nil, nil, true)
	assert.Equal(t, "{type: bind, source: ./html, target: /html}", got)
}

func TestConvertMount_RelabelDisabled(t *testing.T) {
	got := ConvertMount(compose.Mount{Raw: "data:/var/lib/app"}, nil, nil, false)
	assert.Equal(t, "data:/var/lib/app", got)
}

// =============================================================================
// Relabel Rule Tests
// =============================================================================

func TestNeedsRelabel_TableDriven(t *testing.T) {
	tests := []struct {
		name  string
		mount string
		want  bool
	}{
		{
			name:  "two part mount",
			mount: "${STACK_PATH}/data:/var/lib/app",
			want:  true,
		},
		{
			name:  "read only",
			mount: "/srv/html:/usr/share/nginx/html:ro",
			want:  false,
		},
		{
			name:  "already relabeled",
			mount: "/srv/html:/usr/share/nginx/html:z",
			want:  false,
		},
		{
			name:  "explicit mode",
			mount: "/srv/html:/usr/share/nginx/html:rw",
			want:  false,
		},
		{
			name:  "device path",
			mount: "/dev/dri:/dev/dri",
			want:  false,
		},
		{
			name:  "host etc",
			mount: "/etc/localtime:/etc/localtime",
			want:  false,
		},
		{
			name:  "no colon",
			mount: "/var/run",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsRelabel(tt.mount))
		})
	}
}
