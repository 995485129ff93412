package location

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// Location is one weighted draw: a state, a city in it, and a CEP from
// the city's known codes or range. The CEP is in canonical dashed form.
type Location struct {
	StateName string
	StateAbbr string
	City      City
	CEP       string
}

// Sampler draws states weighted by national population share and cities
// weighted by their share within the state. Draws are guarded by a
// mutex so the sampler is safe for concurrent use (the serve API calls
// it from request goroutines).
type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand

	data *Dataset

	stateNames   []string
	stateWeights []float64

	citiesByState map[string][]City
	cityWeights   map[string][]float64

	cityIndex  map[string]City // foldName(name)+"|"+uf
	nameByAbbr map[string]string
}

// NewSampler builds a sampler over the dataset. rnd may be nil, in
// which case a time-seeded source is used.
func NewSampler(data *Dataset, rnd *rand.Rand) (*Sampler, error) {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed))
	}

	s := &Sampler{
		rnd:           rnd,
		data:          data,
		citiesByState: make(map[string][]City),
		cityWeights:   make(map[string][]float64),
		cityIndex:     make(map[string]City),
		nameByAbbr:    make(map[string]string),
	}

	for name, st := range data.States {
		s.nameByAbbr[st.Abbr] = name
	}

	// Deterministic iteration keeps seeded runs reproducible.
	for _, name := range sortedKeys(data.States) {
		st := data.States[name]
		if st.PopulationPct <= 0 {
			continue
		}
		s.stateNames = append(s.stateNames, name)
		s.stateWeights = append(s.stateWeights, st.PopulationPct)
	}
	if len(s.stateNames) == 0 {
		return nil, eris.New("location: no states with positive population share")
	}

	for _, key := range sortedKeys(data.Cities) {
		city := data.Cities[key]
		if city.UF == "" {
			return nil, eris.Errorf("location: city %q has no state", key)
		}
		s.citiesByState[city.UF] = append(s.citiesByState[city.UF], city)
		s.cityWeights[city.UF] = append(s.cityWeights[city.UF], city.PopulationPct)
		s.cityIndex[foldName(city.Name)+"|"+city.UF] = city
	}

	for _, name := range s.stateNames {
		abbr := data.States[name].Abbr
		if len(s.citiesByState[abbr]) == 0 {
			return nil, eris.Errorf("location: state %s has no cities", abbr)
		}
	}

	return s, nil
}

// State draws a state weighted by population percentage.
func (s *Sampler) State() (name, abbr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = s.stateNames[weightedIndex(s.rnd, s.stateWeights)]
	return name, s.data.States[name].Abbr
}

// CityIn draws a city from the given state, weighted by the city's
// population share within it.
func (s *Sampler) CityIn(stateAbbr string) (City, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cityIn(stateAbbr)
}

func (s *Sampler) cityIn(stateAbbr string) (City, error) {
	cities := s.citiesByState[stateAbbr]
	if len(cities) == 0 {
		return City{}, eris.Errorf("location: no cities for state %s", stateAbbr)
	}
	return cities[weightedIndex(s.rnd, s.cityWeights[stateAbbr])], nil
}

// StateName returns the full state name for an abbreviation.
func (s *Sampler) StateName(abbr string) (string, bool) {
	name, ok := s.nameByAbbr[strings.ToUpper(strings.TrimSpace(abbr))]
	return name, ok
}

// CityByName looks a city up by name and state, insensitive to case
// and diacritics.
func (s *Sampler) CityByName(name, stateAbbr string) (City, bool) {
	city, ok := s.cityIndex[foldName(name)+"|"+strings.ToUpper(strings.TrimSpace(stateAbbr))]
	return city, ok
}

// Draw picks a state, a city and a CEP in one weighted draw.
func (s *Sampler) Draw() (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stateName := s.stateNames[weightedIndex(s.rnd, s.stateWeights)]
	abbr := s.data.States[stateName].Abbr

	city, err := s.cityIn(abbr)
	if err != nil {
		return Location{}, err
	}

	cep, err := s.cepFor(city)
	if err != nil {
		return Location{}, err
	}

	return Location{
		StateName: stateName,
		StateAbbr: abbr,
		City:      city,
		CEP:       cep,
	}, nil
}

// CEPFor draws a postal code for the city: a uniform pick from its
// known CEP list when one exists, otherwise a uniform draw from its
// CEP range.
func (s *Sampler) CEPFor(city City) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cepFor(city)
}

func (s *Sampler) cepFor(city City) (string, error) {
	if len(city.CEPs) > 0 {
		return formatCEP(city.CEPs[s.rnd.IntN(len(city.CEPs))])
	}

	if city.CEPRangeBegin == "" || city.CEPRangeEnd == "" {
		return "", eris.Errorf("location: city %s has neither ceps nor a cep range", city.Name)
	}

	begin, err := cepToInt(city.CEPRangeBegin)
	if err != nil {
		return "", err
	}
	end, err := cepToInt(city.CEPRangeEnd)
	if err != nil {
		return "", err
	}
	if end < begin {
		return "", eris.Errorf("location: city %s has inverted cep range", city.Name)
	}

	n := begin + s.rnd.IntN(end-begin+1)
	return formatCEP(fmt.Sprintf("%08d", n))
}

// weightedIndex draws an index proportionally to weights. Weights need
// not be normalized.
func weightedIndex(rnd *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rnd.IntN(len(weights))
	}

	target := rnd.Float64() * total
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

func cepToInt(cep string) (int, error) {
	digits := strings.ReplaceAll(cep, "-", "")
	n, err := strconv.Atoi(digits)
	if err != nil || len(digits) != 8 {
		return 0, eris.Errorf("location: malformed cep %q in dataset", cep)
	}
	return n, nil
}

func formatCEP(cep string) (string, error) {
	// Same validity rules as cepToInt, so a corrupt dataset entry is
	// caught here instead of surfacing as a lookup batch failure.
	if _, err := cepToInt(cep); err != nil {
		return "", err
	}
	digits := strings.ReplaceAll(cep, "-", "")
	return digits[:5] + "-" + digits[5:], nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
