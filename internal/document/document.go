// Package document generates valid Brazilian national ID numbers.
// Check digits follow the official mod-11 rules, so generated numbers
// pass standard validators while never colliding with a guarantee of
// belonging to a real person.
package document

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// CPF generates a valid CPF. Formatted output is XXX.XXX.XXX-XX.
func CPF(rnd *rand.Rand, formatted bool) string {
	d := randomDigits(rnd, 9)
	d = append(d, cpfCheckDigit(d))
	d = append(d, cpfCheckDigit(d))

	s := digitsToString(d)
	if !formatted {
		return s
	}
	return fmt.Sprintf("%s.%s.%s-%s", s[:3], s[3:6], s[6:9], s[9:])
}

func cpfCheckDigit(digits []int) int {
	weight := len(digits) + 1
	sum := 0
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	r := sum * 10 % 11
	if r == 10 {
		return 0
	}
	return r
}

// CNPJ generates a valid CNPJ for a headquarters registration
// (branch 0001). Formatted output is XX.XXX.XXX/XXXX-XX.
func CNPJ(rnd *rand.Rand, formatted bool) string {
	d := randomDigits(rnd, 8)
	d = append(d, 0, 0, 0, 1)
	d = append(d, mod11CheckDigit(d, cnpjWeights[1:]))
	d = append(d, mod11CheckDigit(d, cnpjWeights))

	s := digitsToString(d)
	if !formatted {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", s[:2], s[2:5], s[5:8], s[8:12], s[12:])
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// PIS generates a valid PIS/PASEP number. Formatted output is
// XXX.XXXXX.XX-X.
func PIS(rnd *rand.Rand, formatted bool) string {
	d := randomDigits(rnd, 10)
	d = append(d, mod11CheckDigit(d, pisWeights))

	s := digitsToString(d)
	if !formatted {
		return s
	}
	return fmt.Sprintf("%s.%s.%s-%s", s[:3], s[3:8], s[8:10], s[10:])
}

var pisWeights = []int{3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// CEI generates a valid CEI (Cadastro Específico do INSS). Formatted
// output is XX.XXX.XXXXX/XX.
func CEI(rnd *rand.Rand, formatted bool) string {
	d := randomDigits(rnd, 11)

	sum := 0
	for i, w := range ceiWeights {
		sum += d[i] * w
	}
	d = append(d, (10-sum%10)%10)

	s := digitsToString(d)
	if !formatted {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s", s[:2], s[2:5], s[5:10], s[10:])
}

var ceiWeights = []int{7, 4, 1, 8, 5, 2, 1, 6, 3, 7, 4}

// mod11CheckDigit computes Σ digit·weight mod 11, mapped to 0 when the
// remainder is below 2.
func mod11CheckDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func randomDigits(rnd *rand.Rand, n int) []int {
	d := make([]int, n, n+2)
	for i := range d {
		d[i] = rnd.IntN(10)
	}
	return d
}

func digitsToString(d []int) string {
	var sb strings.Builder
	sb.Grow(len(d))
	for _, v := range d {
		sb.WriteByte(byte('0' + v))
	}
	return sb.String()
}
