package folio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.Equal(t, Images, c.Default())
	require.Equal(t, 15, c.ShowMoreThreshold)
	require.Error(t, c.Validate(), "no input configured")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: Jane Doe\nin_dir: site\ndefault_category: web\nshow_more_threshold: 9\n"), 0o644))
	t.Setenv("FOLIO_DESCRIPTION", "designer")
	t.Setenv("FOLIO_RETRY_MAX", "2")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", c.Collection)
	require.Equal(t, "site", c.InDir)
	require.Equal(t, "designer", c.Description)
	require.Equal(t, 2, c.RetryMax)
	require.Equal(t, 9, c.ShowMoreThreshold)
	require.Equal(t, Web, c.Default())
	require.NoError(t, c.Validate())
	require.IsType(t, DirSource{}, c.Source())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "portfolio", c.Collection)
}

func TestConfigValidate(t *testing.T) {
	c := DefaultConfig()
	c.Remote = "https://example.com"
	require.NoError(t, c.Validate())
	require.IsType(t, &HTTPSource{}, c.Source())

	c.DefaultCategory = "music"
	require.ErrorIs(t, c.Validate(), ErrUnknownCategory)
	require.Equal(t, Images, c.Default())
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
	_, err := ParseCategory("Images")
	require.ErrorIs(t, err, ErrUnknownCategory)

	require.Equal(t, MediaVideo, Videos.Media())
	require.Equal(t, Media3D, Models.Media())
	require.Equal(t, MediaImage, Web.Media())
	require.Equal(t, "config/3d.json", Models.ConfigPath())
}
