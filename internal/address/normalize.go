package address

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ptbr-tools/sampler-cli/internal/model"
)

// FormatCEP returns the canonical NNNNN-NNN form of a postal code.
// An 8-digit input gets a dash inserted after the fifth digit; an input
// already in canonical form is returned unchanged. Any other shape is
// a caller error. The input is never mutated; idempotent.
func FormatCEP(code string) (string, error) {
	code = strings.TrimSpace(code)

	if len(code) == 9 && code[5] == '-' {
		if isDigits(code[:5]) && isDigits(code[6:]) {
			return code, nil
		}
		return "", eris.Errorf("address: malformed cep %q", code)
	}

	if len(code) == 8 && isDigits(code) {
		return code[:5] + "-" + code[5:], nil
	}

	return "", eris.Errorf("address: malformed cep %q", code)
}

// StripCEP reduces a postal code to its 8-digit form for directory
// lookups, validating the shape on the way.
func StripCEP(code string) (string, error) {
	formatted, err := FormatCEP(code)
	if err != nil {
		return "", err
	}
	return formatted[:5] + formatted[6:], nil
}

// Normalize trims incidental whitespace from every string field and
// applies the CEP dash rule. Applying it twice yields the same record
// as applying it once.
func Normalize(rec model.AddressRecord) (model.AddressRecord, error) {
	cep, err := FormatCEP(rec.PostalCode)
	if err != nil {
		return model.AddressRecord{}, err
	}

	rec.PostalCode = cep
	rec.Street = strings.TrimSpace(rec.Street)
	rec.Neighborhood = strings.TrimSpace(rec.Neighborhood)
	rec.BuildingNumber = strings.TrimSpace(rec.BuildingNumber)
	rec.City = strings.TrimSpace(rec.City)
	rec.State = strings.TrimSpace(rec.State)

	return rec, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
