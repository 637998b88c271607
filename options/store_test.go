package options

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadMissingCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	o, err := Load(path, quiet)
	require.NoError(t, err)
	assert.Equal(t, Default(), o)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "collisions = false\nlighting = false\nscripts = false\nshape = \"cube\"\n", string(data))
}

func TestLoadExistingIsNotRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	content := "# hand edited\nscripts = true\nshape = \"cylinder\"\ncollisions = true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	o, err := Load(path, quiet)
	require.NoError(t, err)
	assert.Equal(t, Options{Collisions: true, Scripts: true, Shape: ShapeCylinder}, o)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestLoadMissingKeysKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("lighting = true\n"), 0o644))

	o, err := Load(path, quiet)
	require.NoError(t, err)
	assert.Equal(t, Options{Lighting: true, Shape: ShapeCube}, o)
}

func TestLoadMalformedFallsBack(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":       "collisions = = true\n",
		"type":         "collisions = \"yes\"\n",
		"unterminated": "shape = \"cube\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultPath)
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			o, err := Load(path, quiet)
			require.NoError(t, err)
			assert.Equal(t, Default(), o)

			// Malformed file is left for the user to fix
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, content, string(data))
		})
	}
}

func TestLoadUnknownShapeIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("shape = \"Cube\"\n"), 0o644))

	_, err := Load(path, quiet)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Cube", cfgErr.Value)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cases := []Options{
		Default(),
		{Collisions: true, Scripts: true, Lighting: true, Shape: ShapeSphere},
		{Scripts: true, Shape: ShapeCapsule},
		{Lighting: true, Shape: ShapeCylinder},
	}
	for i, want := range cases {
		path := filepath.Join(dir, "opts"+string(rune('a'+i))+".toml")
		require.NoError(t, Save(path, want))

		got, err := Load(path, quiet)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	err := Save(path, Options{Shape: "cone"})
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.NoFileExists(t, path)
}

func TestLoadUnwritableDirStillReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultPath)

	o, err := Load(path, quiet)
	require.NoError(t, err)
	assert.Equal(t, Default(), o)
	assert.NoFileExists(t, path)
}
