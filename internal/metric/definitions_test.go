package metric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "community_size.yaml", `
description: Preferred congregation size
schema:
  type: object
  properties:
    size:
      type: string
      enum: [small, medium, large]
  required: [size]
`)
	writeFile(t, dir, "b.json", `{"name": "age", "active": false, "schema": {"type": "object", "properties": {"years": {"type": "integer", "minimum": 0}}}}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	defs, err := LoadDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	require.Equal(t, "age", defs[0].Name)
	require.NotNil(t, defs[0].IsActive)
	require.False(t, *defs[0].IsActive)
	props, ok := defs[0].Schema["properties"].AsObject()
	require.True(t, ok)
	years, ok := props["years"].AsObject()
	require.True(t, ok)
	require.True(t, jsonvalue.Equal(jsonvalue.Int(0), years["minimum"]))

	require.Equal(t, "community_size", defs[1].Name, "name defaults to the file name")
	require.Equal(t, "Preferred congregation size", defs[1].Description)
	require.Nil(t, defs[1].IsActive)
	required, ok := defs[1].Schema["required"].AsArray()
	require.True(t, ok)
	require.Len(t, required, 1)
}

func TestLoadDefinitions_MissingDirectory(t *testing.T) {
	defs, err := LoadDefinitions(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	require.Empty(t, defs)
}

func TestLoadDefinitions_Errors(t *testing.T) {
	t.Run("duplicate names", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.yaml", "name: signup\n")
		writeFile(t, dir, "b.yml", "name: signup\n")

		_, err := LoadDefinitions(dir)
		require.ErrorContains(t, err, `metric "signup" is defined in both a.yaml and b.yml`)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.yaml", "schema: [unclosed\n")

		_, err := LoadDefinitions(dir)
		require.ErrorContains(t, err, "failed to parse metric definition")
	})

	t.Run("unknown json field", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bad.json", `{"name": "x", "schemas": {}}`)

		_, err := LoadDefinitions(dir)
		require.ErrorContains(t, err, "failed to parse metric definition")
	})
}
