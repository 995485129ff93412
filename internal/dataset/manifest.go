// Package dataset refreshes the location reference data from the IBGE
// published sources: the localities API for the municipality list and
// the population estimates spreadsheet for sampling weights.
package dataset

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest describes where the reference data comes from and where the
// merged dataset is written.
type Manifest struct {
	Sources struct {
		// Municipalities is the IBGE localities API endpoint returning
		// the full municipality list as a JSON array.
		Municipalities string `yaml:"municipalities"`
		// Estimates points at the population estimates spreadsheet
		// (.xlsx, .csv or a .zip holding one), either http(s):// or
		// ftp://. An ftp:// URL ending in "/" means "the newest
		// spreadsheet in that directory".
		Estimates      string `yaml:"estimates"`
		EstimatesSheet string `yaml:"estimates_sheet"`
		// EstimatesZipEntry selects the file inside a zipped estimates
		// source by substring. Defaults to ".xlsx".
		EstimatesZipEntry string `yaml:"estimates_zip_entry"`
		// EstimatesSkipRows discards the title and header rows above
		// the data.
		EstimatesSkipRows int `yaml:"estimates_skip_rows"`
	} `yaml:"sources"`
	Output string `yaml:"output"`
}

// DefaultManifest returns the manifest used when no file is given.
func DefaultManifest() Manifest {
	var m Manifest
	m.Sources.Municipalities = "https://servicodados.ibge.gov.br/api/v1/localidades/municipios"
	// IBGE publishes the estimates workbook in both legacy .xls and
	// OOXML .xlsx editions; only the latter is parseable here.
	m.Sources.Estimates = "https://ftp.ibge.gov.br/Estimativas_de_Populacao/Estimativas_2024/POP2024_20241230.xlsx"
	m.Sources.EstimatesSheet = "Municípios"
	m.Sources.EstimatesSkipRows = 2
	m.Output = "internal/location/data/locations.json"
	return m
}

// LoadManifest reads a manifest file, filling in defaults for fields
// left unset.
func LoadManifest(path string) (Manifest, error) {
	m := DefaultManifest()
	b, err := os.ReadFile(path)
	if err != nil {
		return m, eris.Wrapf(err, "dataset: read manifest %s", path)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return m, eris.Wrapf(err, "dataset: parse manifest %s", path)
	}
	if m.Sources.EstimatesSheet == "" {
		m.Sources.EstimatesSheet = "Municípios"
	}
	return m, nil
}

// SyncState remembers ETags between syncs so unchanged sources are not
// downloaded again.
type SyncState struct {
	ETags map[string]string `yaml:"etags"`
}

// LoadSyncState reads the state file. A missing file yields an empty
// state, not an error.
func LoadSyncState(path string) (*SyncState, error) {
	st := &SyncState{ETags: map[string]string{}}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read sync state %s", path)
	}
	if err := yaml.Unmarshal(b, st); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse sync state %s", path)
	}
	if st.ETags == nil {
		st.ETags = map[string]string{}
	}
	return st, nil
}

// Save writes the state back to path.
func (st *SyncState) Save(path string) error {
	b, err := yaml.Marshal(st)
	if err != nil {
		return eris.Wrap(err, "dataset: marshal sync state")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrapf(err, "dataset: write sync state %s", path)
	}
	return nil
}
