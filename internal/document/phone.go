package document

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rotisserie/eris"
)

// Phone generates a phone number in the given area code (DDD),
// randomly a landline "(XX) XXXX-XXXX" or a cellphone
// "(XX) 9XXXX-XXXX". The DDD comes from the sampled city, so numbers
// stay geographically consistent with the rest of the record.
func Phone(rnd *rand.Rand, ddd string) (string, error) {
	ddd = strings.TrimSpace(ddd)
	if len(ddd) != 2 || !allDigits(ddd) {
		return "", eris.Errorf("document: invalid ddd %q", ddd)
	}

	if rnd.IntN(2) == 0 {
		// Landline prefixes run 2xxx-5xxx.
		return fmt.Sprintf("(%s) %d%03d-%04d", ddd, 2+rnd.IntN(4), rnd.IntN(1000), rnd.IntN(10000)), nil
	}
	return fmt.Sprintf("(%s) 9%04d-%04d", ddd, rnd.IntN(10000), rnd.IntN(10000)), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
