// Package address synthesizes and enriches Brazilian street addresses,
// merging live postal-directory data with locally generated fields.
package address

import (
	"math/rand/v2"
	"strconv"
)

// Street-type prefixes in rough order of how common they are on
// Brazilian street signs.
var streetPrefixes = []string{
	"Rua", "Rua", "Rua", "Avenida", "Avenida", "Travessa",
	"Alameda", "Praça", "Estrada", "Rodovia",
}

// Surname-like tokens used to complete synthetic street names.
var streetNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Pereira", "Lima",
	"Carvalho", "Ribeiro", "Almeida", "Costa", "Barbosa", "Rocha",
	"Dias", "Nascimento", "Andrade", "Moreira", "Nunes", "Marques",
	"Machado", "Mendes", "Freitas", "Cardoso", "Ramos", "Gonçalves",
	"Santana", "Teixeira",
}

// Standalone neighborhood names.
var neighborhoods = []string{
	"Centro", "Boa Vista", "Santo Antônio", "São José", "Santa Luzia",
	"Bela Vista", "Cidade Nova", "Aparecida", "Liberdade", "Ipiranga",
}

// Prefixes composed with a street-name token to form neighborhoods
// like "Jardim Oliveira" or "Vila Santana".
var neighborhoodPrefixes = []string{
	"Jardim", "Vila", "Parque", "Conjunto", "Residencial",
}

// Street generates a plausible street name from a street-type prefix
// and a surname-like token. The random source is injected; callers
// needing reproducibility pass a seeded one. Never fails.
func Street(rnd *rand.Rand) string {
	return streetPrefixes[rnd.IntN(len(streetPrefixes))] + " " +
		streetNames[rnd.IntN(len(streetNames))]
}

// Neighborhood generates a plausible neighborhood name.
func Neighborhood(rnd *rand.Rand) string {
	// Half the draws use a standalone name, half a composed one.
	if rnd.IntN(2) == 0 {
		return neighborhoods[rnd.IntN(len(neighborhoods))]
	}
	return neighborhoodPrefixes[rnd.IntN(len(neighborhoodPrefixes))] + " " +
		streetNames[rnd.IntN(len(streetNames))]
}

// BuildingNumber generates a building number between 1 and 999.
func BuildingNumber(rnd *rand.Rand) string {
	return strconv.Itoa(1 + rnd.IntN(999))
}

// Synthesize returns a fully populated street/neighborhood/number
// triple. Every field is drawn independently.
func Synthesize(rnd *rand.Rand) (street, neighborhood, number string) {
	return Street(rnd), Neighborhood(rnd), BuildingNumber(rnd)
}
