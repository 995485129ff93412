package model

// Source indicates where the fields of an address record came from.
type Source string

const (
	// SourceLive means both street and neighborhood came from the
	// postal directory lookup.
	SourceLive Source = "LIVE"
	// SourceSynthetic means every enrichable field was generated locally.
	SourceSynthetic Source = "SYNTHETIC"
	// SourceMixed means the record combines live and synthetic fields.
	SourceMixed Source = "MIXED"
)

// AddressRecord is one fully resolved street-level address. After
// enrichment, Street, Neighborhood and BuildingNumber are never empty
// and PostalCode is always in NNNNN-NNN form.
type AddressRecord struct {
	PostalCode     string `json:"cep"`
	Street         string `json:"street"`
	Neighborhood   string `json:"neighborhood"`
	BuildingNumber string `json:"building_number"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	Source         Source `json:"source"`
}
