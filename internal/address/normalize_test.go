package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptbr-tools/sampler-cli/internal/model"
)

func TestFormatCEP_InsertsDash(t *testing.T) {
	got, err := FormatCEP("36335000")
	require.NoError(t, err)
	assert.Equal(t, "36335-000", got)
}

func TestFormatCEP_AlreadyDashedIsIdentity(t *testing.T) {
	got, err := FormatCEP("36335-000")
	require.NoError(t, err)
	assert.Equal(t, "36335-000", got)
}

func TestFormatCEP_Idempotent(t *testing.T) {
	once, err := FormatCEP("01000001")
	require.NoError(t, err)
	twice, err := FormatCEP(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFormatCEP_TrimsWhitespace(t *testing.T) {
	got, err := FormatCEP("  36335000 ")
	require.NoError(t, err)
	assert.Equal(t, "36335-000", got)
}

func TestFormatCEP_RejectsMalformed(t *testing.T) {
	for _, code := range []string{
		"", "1234567", "123456789", "1234-5678", "abcde-fgh",
		"12345-67", "12345678-", "12a45678",
	} {
		_, err := FormatCEP(code)
		assert.Error(t, err, "code %q", code)
	}
}

func TestStripCEP(t *testing.T) {
	got, err := StripCEP("36335-000")
	require.NoError(t, err)
	assert.Equal(t, "36335000", got)

	got, err = StripCEP("36335000")
	require.NoError(t, err)
	assert.Equal(t, "36335000", got)

	_, err = StripCEP("36335")
	assert.Error(t, err)
}

func TestNormalize_TrimsFieldsAndFormatsCEP(t *testing.T) {
	rec, err := Normalize(model.AddressRecord{
		PostalCode:     "01000001",
		Street:         "  Rua Silva ",
		Neighborhood:   " Centro",
		BuildingNumber: "42 ",
		City:           " São Paulo ",
		State:          " SP",
		Source:         model.SourceLive,
	})
	require.NoError(t, err)

	assert.Equal(t, "01000-001", rec.PostalCode)
	assert.Equal(t, "Rua Silva", rec.Street)
	assert.Equal(t, "Centro", rec.Neighborhood)
	assert.Equal(t, "42", rec.BuildingNumber)
	assert.Equal(t, "São Paulo", rec.City)
	assert.Equal(t, "SP", rec.State)
	assert.Equal(t, model.SourceLive, rec.Source)
}

func TestNormalize_Idempotent(t *testing.T) {
	rec := model.AddressRecord{
		PostalCode:   "36335000",
		Street:       " Avenida Costa ",
		Neighborhood: "Jardim Lima",
	}

	once, err := Normalize(rec)
	require.NoError(t, err)
	twice, err := Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := model.AddressRecord{PostalCode: "36335000", Street: " x "}
	_, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, "36335000", in.PostalCode)
	assert.Equal(t, " x ", in.Street)
}
