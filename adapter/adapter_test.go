package adapter

import (
	"regexp"
	"testing"

	"github.com/skosovsky/llmprovider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSplitMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		msgs       []llmprovider.Message
		wantSystem string
		wantRoles  []llmprovider.Role
	}{
		{"nil", nil, "", []llmprovider.Role{}},
		{"system and user", []llmprovider.Message{
			{Role: llmprovider.RoleSystem, Content: llmprovider.Text("You are helpful.")},
			{Role: llmprovider.RoleUser, Content: llmprovider.Text("Hello!")},
		}, "You are helpful.", []llmprovider.Role{llmprovider.RoleUser}},
		{"system and developer joined", []llmprovider.Message{
			{Role: llmprovider.RoleSystem, Content: llmprovider.Text("  one ")},
			{Role: llmprovider.RoleUser, Content: llmprovider.Text("q")},
			{Role: llmprovider.RoleDeveloper, Content: llmprovider.Text("two  ")},
		}, "one \n\ntwo", []llmprovider.Role{llmprovider.RoleUser}},
		{"list content in system", []llmprovider.Message{
			{Role: llmprovider.RoleSystem, Content: llmprovider.TextList{"a", "b"}},
		}, `["a","b"]`, []llmprovider.Role{}},
		{"absent system content", []llmprovider.Message{
			{Role: llmprovider.RoleSystem},
			{Role: llmprovider.RoleAssistant, Content: llmprovider.Text("hi")},
			{Role: llmprovider.RoleTool, Content: llmprovider.Text("42")},
			{Role: llmprovider.RoleUser, Content: llmprovider.Text("ok")},
		}, "", []llmprovider.Role{llmprovider.RoleAssistant, llmprovider.RoleTool, llmprovider.RoleUser}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := SplitMessages(tt.msgs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSystem, p.System)
			roles := make([]llmprovider.Role, 0, len(p.Turns))
			for _, m := range p.Turns {
				roles = append(roles, m.Role)
			}
			assert.Equal(t, tt.wantRoles, roles)
		})
	}
}

func TestSplitMessages_UnknownRole(t *testing.T) {
	t.Parallel()
	_, err := SplitMessages([]llmprovider.Message{{Role: "narrator", Content: llmprovider.Text("x")}})
	assert.ErrorIs(t, err, ErrUnsupportedRole)
}

func TestResolveAPIKey(t *testing.T) {
	t.Parallel()
	env := func(vals map[string]string) LookupEnv {
		return func(k string) (string, bool) {
			v, ok := vals[k]
			return v, ok
		}
	}
	tests := []struct {
		name   string
		opts   *llmprovider.ExecutionOptions
		env    map[string]string
		want   string
		wantOK bool
	}{
		{"options win", &llmprovider.ExecutionOptions{APIKey: "opt"}, map[string]string{"K": "env"}, "opt", true},
		{"env fallback", nil, map[string]string{"K": "env"}, "env", true},
		{"empty option falls back", &llmprovider.ExecutionOptions{APIKey: ""}, map[string]string{"K": "env"}, "env", true},
		{"empty env is absent", nil, map[string]string{"K": ""}, "", false},
		{"nothing", &llmprovider.ExecutionOptions{}, map[string]string{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveAPIKey(tt.opts, "K", env(tt.env))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidKey(t *testing.T) {
	t.Parallel()
	p := regexp.MustCompile(`sk-[a-z]+`)
	assert.True(t, ValidKey(p, "sk-abc"))
	assert.False(t, ValidKey(p, "xsk-abc"))
	assert.False(t, ValidKey(p, "sk-abc!"))
	assert.False(t, ValidKey(p, ""))
}

func TestSchemaFields(t *testing.T) {
	t.Parallel()
	got, err := SchemaFields(map[string]any{
		"type":       "object",
		"properties": map[string]any{"name": map[string]any{"type": "string"}},
		"required":   []any{"name"},
	})
	require.NoError(t, err)
	assert.Equal(t, "object", got.Type)
	assert.Contains(t, got.Properties, "name")
	assert.Equal(t, []string{"name"}, got.Required)
	assert.Nil(t, got.Extra)

	// Go callers often build required as []string; it must not be dropped.
	got, err = SchemaFields(map[string]any{"required": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Required)

	got, err = SchemaFields(nil)
	require.NoError(t, err)
	assert.Equal(t, Schema{Type: "object"}, got)

	_, err = SchemaFields(map[string]any{"required": []any{1}})
	require.ErrorIs(t, err, ErrMalformedSchema)
	_, err = SchemaFields(map[string]any{"required": "name"})
	require.ErrorIs(t, err, ErrMalformedSchema)
	_, err = SchemaFields(map[string]any{"properties": "nope"})
	require.ErrorIs(t, err, ErrMalformedSchema)
}

func TestSchemaFields_KeepsOtherKeys(t *testing.T) {
	t.Parallel()
	defs := map[string]any{"node": map[string]any{"type": "string", "enum": []any{"a", "b"}}}
	got, err := SchemaFields(map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"root": map[string]any{"$ref": "#/$defs/node"}},
		"required":             []any{"root"},
		"$defs":                defs,
		"additionalProperties": false,
		"description":          "a tree",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"$defs":                defs,
		"additionalProperties": false,
		"description":          "a tree",
	}, got.Extra)
}
