package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptbr-tools/sampler-cli/internal/model"
)

func sampleFixture(name, cep string) model.Sample {
	return model.Sample{
		Name:      name,
		Surname:   "Oliveira",
		City:      "São Paulo",
		State:     "São Paulo",
		StateAbbr: "SP",
		Address: model.AddressRecord{
			PostalCode:     cep,
			Street:         "Rua Augusta",
			Neighborhood:   "Consolação",
			BuildingNumber: "250",
			City:           "São Paulo",
			State:          "SP",
			Source:         model.SourceSynthetic,
		},
	}
}

func TestJSONL_WriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewJSONL(path, ModeOverwrite)
	require.NoError(t, err)

	in := []model.Sample{sampleFixture("Ana", "01310-000"), sampleFixture("Bruno", "01311-000")}
	require.NoError(t, w.WriteAll(in))
	require.NoError(t, w.Close())

	out, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJSONL_OneObjectPerLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewJSONL(path, ModeOverwrite)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleFixture("Carla", "01312-000")))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "{"))
	assert.True(t, strings.HasSuffix(lines[0], "}"))
	assert.NotContains(t, lines[0], "\n")
}

func TestJSONL_AppendKeepsExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewJSONL(path, ModeOverwrite)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleFixture("Ana", "01310-000")))
	require.NoError(t, w.Close())

	w, err = NewJSONL(path, ModeAppend)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleFixture("Bruno", "01311-000")))
	require.NoError(t, w.Close())

	out, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Ana", out[0].Name)
	assert.Equal(t, "Bruno", out[1].Name)
}

func TestJSONL_OverwriteReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")

	w, err := NewJSONL(path, ModeOverwrite)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleFixture("Ana", "01310-000")))
	require.NoError(t, w.Close())

	w, err = NewJSONL(path, ModeOverwrite)
	require.NoError(t, err)
	require.NoError(t, w.Write(sampleFixture("Bruno", "01311-000")))
	require.NoError(t, w.Close())

	out, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Bruno", out[0].Name)
}

func TestReadAll_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("\n{\"city\":\"Recife\",\"state\":\"Pernambuco\",\"state_abbr\":\"PE\",\"address\":{\"cep\":\"50010-000\",\"street\":\"\",\"neighborhood\":\"\",\"building_number\":\"\",\"city\":\"\",\"state\":\"\",\"source\":\"SYNTHETIC\"}}\n\n"), 0o644))

	out, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Recife", out[0].City)
}

func TestReadAll_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0o644))

	_, err := ReadAll(path)
	assert.Error(t, err)
}
