package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  municipalities: https://example.com/municipios
  estimates: https://example.com/pop.xlsx
  estimates_skip_rows: 3
output: /tmp/locations.json
`), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/municipios", m.Sources.Municipalities)
	assert.Equal(t, "https://example.com/pop.xlsx", m.Sources.Estimates)
	assert.Equal(t, 3, m.Sources.EstimatesSkipRows)
	assert.Equal(t, "/tmp/locations.json", m.Output)
	assert.Equal(t, "Municípios", m.Sources.EstimatesSheet, "unset fields keep defaults")
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	assert.Contains(t, m.Sources.Municipalities, "servicodados.ibge.gov.br")
	assert.Contains(t, m.Sources.Estimates, "ftp.ibge.gov.br")
	assert.NotEmpty(t, m.Output)

	// The legacy .xls edition is an OLE2 binary the parser cannot open;
	// the default must point at the OOXML one.
	assert.True(t, strings.HasSuffix(m.Sources.Estimates, ".xlsx"),
		"default estimates source must be .xlsx, got %s", m.Sources.Estimates)
}

func TestSyncState_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	st, err := LoadSyncState(path)
	require.NoError(t, err, "missing state file is not an error")
	assert.Empty(t, st.ETags)

	st.ETags["https://example.com/pop.xlsx"] = `"v2"`
	require.NoError(t, st.Save(path))

	loaded, err := LoadSyncState(path)
	require.NoError(t, err)
	assert.Equal(t, `"v2"`, loaded.ETags["https://example.com/pop.xlsx"])
}
