package document

import (
	"math/rand/v2"
	"strings"

	"github.com/rotisserie/eris"
)

// rgPatterns maps state codes to the digit layout each state prints on
// its RG cards ('#' is a digit position).
var rgPatterns = map[string]string{
	"AC": "##.####-#",
	"AL": "###.###-##",
	"AP": "##.###-##",
	"AM": "###.###-##",
	"BA": "###.###.###",
	"CE": "##.###.###-#",
	"DF": "##.###.###-#",
	"ES": "###.###-##",
	"GO": "###.###-##",
	"MA": "##.####-#",
	"MT": "##.###-##",
	"MS": "##.###-##",
	"MG": "##.###-##",
	"PA": "###.###-#",
	"PB": "###.###-##",
	"PR": "##.###.###",
	"PE": "###.###-##",
	"PI": "##.###-##",
	"RJ": "###.####-#",
	"RN": "##.###-##",
	"RS": "##.###.###",
	"RO": "##.####-##",
	"RR": "##.###-##",
	"SC": "##.###-##",
	"SP": "##.###.###-#",
	"SE": "##.###-##",
	"TO": "##.###-##",
}

// rgIssuers maps state codes to the usual issuing authority. Most
// states issue through the Secretaria de Segurança Pública; Rio de
// Janeiro through DETRAN.
var rgIssuers = map[string]string{
	"RJ": "DETRAN-RJ",
}

// RG generates a state-patterned RG number. With includeIssuer the
// issuing authority is appended ("12.345.678-9 SSP-SP"). Minas Gerais
// cards sometimes carry the "MG" prefix; that choice is random, as on
// real cards.
func RG(rnd *rand.Rand, state string, includeIssuer bool) (string, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	pattern, ok := rgPatterns[state]
	if !ok {
		return "", eris.Errorf("document: unknown state code %q", state)
	}

	var sb strings.Builder
	for _, c := range pattern {
		if c == '#' {
			sb.WriteByte(byte('0' + rnd.IntN(10)))
		} else {
			sb.WriteRune(c)
		}
	}
	rg := sb.String()

	if state == "MG" && rnd.IntN(2) == 0 {
		rg = "MG-" + rg
	}

	if includeIssuer {
		issuer, ok := rgIssuers[state]
		if !ok {
			issuer = "SSP-" + state
		}
		rg += " " + issuer
	}

	return rg, nil
}
