// Package location draws population-weighted Brazilian states, cities
// and postal codes from a JSON dataset.
package location

import (
	"encoding/json"
	"os"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	_ "embed"
)

//go:embed data/locations.json
var embeddedData []byte

// State is one federative unit with its national population share.
type State struct {
	Abbr          string  `json:"state_abbr"`
	PopulationPct float64 `json:"population_percentage"`
}

// City is one municipality. A city carries either an explicit list of
// known CEPs or an inclusive CEP range to draw from.
type City struct {
	Name          string   `json:"city_name"`
	UF            string   `json:"city_uf"`
	PopulationPct float64  `json:"population_percentage_state"`
	DDD           string   `json:"ddd"`
	CEPRangeBegin string   `json:"cep_range_begins,omitempty"`
	CEPRangeEnd   string   `json:"cep_range_ends,omitempty"`
	CEPs          []string `json:"ceps,omitempty"`
}

// Dataset is the full location reference data.
type Dataset struct {
	States map[string]State `json:"states"`
	Cities map[string]City  `json:"cities"`
}

// LoadDataset reads location data from path, or the embedded dataset
// when path is empty.
func LoadDataset(path string) (*Dataset, error) {
	raw := embeddedData
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrap(err, "location: read dataset")
		}
		raw = b
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, eris.Wrap(err, "location: parse dataset")
	}
	if len(ds.States) == 0 || len(ds.Cities) == 0 {
		return nil, eris.New("location: dataset is missing states or cities")
	}

	// City names in merged datasets sometimes live only in the map key,
	// formatted as "Name_UF".
	for key, city := range ds.Cities {
		if city.Name == "" {
			if idx := strings.LastIndex(key, "_"); idx > 0 && key[idx+1:] == city.UF {
				city.Name = key[:idx]
			} else {
				city.Name = key
			}
			ds.Cities[key] = city
		}
	}

	return &ds, nil
}

// SaveDataset writes the dataset to path as indented JSON, the same
// layout the embedded file uses.
func SaveDataset(path string, ds *Dataset) error {
	b, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return eris.Wrap(err, "location: marshal dataset")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return eris.Wrap(err, "location: write dataset")
	}
	return nil
}

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// foldName lowercases a city or state name and strips diacritics, so
// "São Paulo", "Sao Paulo" and "SÃO PAULO" all key the same entry.
func foldName(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// FoldName exposes the dataset's name folding for packages that match
// external city lists against it.
func FoldName(s string) string {
	return foldName(s)
}
