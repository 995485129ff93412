package document

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// validCPF re-runs the official check-digit algorithm.
func validCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	d := make([]int, 11)
	for i := range cpf {
		n, err := strconv.Atoi(string(cpf[i]))
		if err != nil {
			return false
		}
		d[i] = n
	}
	return cpfCheckDigit(d[:9]) == d[9] && cpfCheckDigit(d[:10]) == d[10]
}

func TestCPF_ValidCheckDigits(t *testing.T) {
	rnd := testRand(1)
	for range 200 {
		cpf := CPF(rnd, false)
		require.Len(t, cpf, 11)
		assert.True(t, validCPF(cpf), "cpf %s", cpf)
	}
}

func TestCPF_Formatted(t *testing.T) {
	rnd := testRand(2)
	re := regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	for range 50 {
		assert.Regexp(t, re, CPF(rnd, true))
	}
}

func TestCNPJ_ValidCheckDigits(t *testing.T) {
	rnd := testRand(3)
	for range 200 {
		cnpj := CNPJ(rnd, false)
		require.Len(t, cnpj, 14)
		assert.Equal(t, "0001", cnpj[8:12], "headquarters branch")

		d := make([]int, 14)
		for i := range cnpj {
			d[i], _ = strconv.Atoi(string(cnpj[i]))
		}
		assert.Equal(t, d[12], mod11CheckDigit(d[:12], cnpjWeights[1:]), "cnpj %s dv1", cnpj)
		assert.Equal(t, d[13], mod11CheckDigit(d[:13], cnpjWeights), "cnpj %s dv2", cnpj)
	}
}

func TestCNPJ_Formatted(t *testing.T) {
	rnd := testRand(4)
	re := regexp.MustCompile(`^\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}$`)
	assert.Regexp(t, re, CNPJ(rnd, true))
}

func TestPIS_ValidCheckDigit(t *testing.T) {
	rnd := testRand(5)
	for range 200 {
		pis := PIS(rnd, false)
		require.Len(t, pis, 11)

		d := make([]int, 11)
		for i := range pis {
			d[i], _ = strconv.Atoi(string(pis[i]))
		}
		assert.Equal(t, d[10], mod11CheckDigit(d[:10], pisWeights), "pis %s", pis)
	}
}

func TestPIS_Formatted(t *testing.T) {
	rnd := testRand(6)
	re := regexp.MustCompile(`^\d{3}\.\d{5}\.\d{2}-\d$`)
	assert.Regexp(t, re, PIS(rnd, true))
}

func TestCEI_ValidCheckDigit(t *testing.T) {
	rnd := testRand(7)
	for range 200 {
		cei := CEI(rnd, false)
		require.Len(t, cei, 12)

		sum := 0
		for i, w := range ceiWeights {
			n, _ := strconv.Atoi(string(cei[i]))
			sum += n * w
		}
		dv, _ := strconv.Atoi(string(cei[11]))
		assert.Equal(t, (10-sum%10)%10, dv, "cei %s", cei)
	}
}

func TestCEI_Formatted(t *testing.T) {
	rnd := testRand(8)
	re := regexp.MustCompile(`^\d{2}\.\d{3}\.\d{5}/\d{2}$`)
	assert.Regexp(t, re, CEI(rnd, true))
}

func TestRG_PatternPerState(t *testing.T) {
	rnd := testRand(9)

	rg, err := RG(rnd, "SP", false)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{2}\.\d{3}\.\d{3}-\d$`, rg)

	rg, err = RG(rnd, "BA", false)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{3}\.\d{3}\.\d{3}$`, rg)
}

func TestRG_Issuer(t *testing.T) {
	rnd := testRand(10)

	rg, err := RG(rnd, "sp", true)
	require.NoError(t, err)
	assert.Contains(t, rg, "SSP-SP")

	rg, err = RG(rnd, "RJ", true)
	require.NoError(t, err)
	assert.Contains(t, rg, "DETRAN-RJ")
}

func TestRG_MGPrefixShowsUp(t *testing.T) {
	rnd := testRand(11)

	withPrefix := 0
	for range 100 {
		rg, err := RG(rnd, "MG", false)
		require.NoError(t, err)
		if len(rg) > 3 && rg[:3] == "MG-" {
			withPrefix++
		}
	}
	assert.Greater(t, withPrefix, 0)
	assert.Less(t, withPrefix, 100)
}

func TestRG_UnknownState(t *testing.T) {
	_, err := RG(testRand(12), "XX", true)
	assert.Error(t, err)
}

func TestPhone_Formats(t *testing.T) {
	rnd := testRand(13)
	re := regexp.MustCompile(`^\(\d{2}\) 9?\d{4}-\d{4}$`)

	sawCell, sawLandline := false, false
	for range 100 {
		phone, err := Phone(rnd, "11")
		require.NoError(t, err)
		assert.Regexp(t, re, phone)
		if len(phone) == 15 {
			sawCell = true
		} else {
			sawLandline = true
		}
	}
	assert.True(t, sawCell)
	assert.True(t, sawLandline)
}

func TestPhone_InvalidDDD(t *testing.T) {
	rnd := testRand(14)
	for _, ddd := range []string{"", "1", "111", "ab"} {
		_, err := Phone(rnd, ddd)
		assert.Error(t, err, "ddd %q", ddd)
	}
}
