// Package person generates Brazilian personal names weighted by how
// common they were in each census time period.
package person

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// TimePeriod selects which census slice first names are drawn from.
// Values match the dataset labels of the source material.
type TimePeriod string

const (
	Until1930 TimePeriod = "ate1930"
	Until1940 TimePeriod = "ate1940"
	Until1950 TimePeriod = "ate1950"
	Until1960 TimePeriod = "ate1960"
	Until1970 TimePeriod = "ate1970"
	Until1980 TimePeriod = "ate1980"
	Until1990 TimePeriod = "ate1990"
	Until2000 TimePeriod = "ate2000"
	Until2010 TimePeriod = "ate2010"
)

// Components holds the parts of a generated name.
type Components struct {
	First   string
	Middle  string
	Surname string
}

// Full joins the non-empty components with spaces.
func (c Components) Full() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.First, c.Middle, c.Surname} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Options configures one name draw.
type Options struct {
	Period TimePeriod
	// Raw returns names in the dataset's all-caps form.
	Raw bool
	// OneSurname draws a single surname instead of two.
	OneSurname bool
	// AlwaysMiddle forces a middle name instead of the statistical draw.
	AlwaysMiddle bool
	// Top40 restricts surnames to the most common ones.
	Top40 bool
}

// Sampler draws names from the reference tables. Safe for concurrent
// use; the random source is guarded by a mutex.
type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSampler creates a name sampler. rnd may be nil for a time-seeded
// source.
func NewSampler(rnd *rand.Rand) *Sampler {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed))
	}
	return &Sampler{rnd: rnd}
}

// Name draws a full name.
func (s *Sampler) Name(opts Options) Components {
	s.mu.Lock()
	defer s.mu.Unlock()

	period := opts.Period
	if period == "" {
		period = Until2010
	}
	firsts, ok := firstNamesByPeriod[period]
	if !ok {
		firsts = firstNamesByPeriod[Until2010]
	}

	c := Components{First: firsts[s.rnd.IntN(len(firsts))]}

	if opts.AlwaysMiddle || s.rnd.Float64() < middleNameShare {
		c.Middle = middleNames[s.rnd.IntN(len(middleNames))]
	}

	c.Surname = s.surname(opts)

	if opts.Raw {
		c.First = strings.ToUpper(c.First)
		c.Middle = strings.ToUpper(c.Middle)
		c.Surname = strings.ToUpper(c.Surname)
	} else {
		c.Surname = titleSurname(c.Surname)
	}

	return c
}

// Surname draws surnames only, applying the same prefix rules.
func (s *Sampler) Surname(opts Options) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	sur := s.surname(opts)
	if opts.Raw {
		return strings.ToUpper(sur)
	}
	return titleSurname(sur)
}

func (s *Sampler) surname(opts Options) string {
	pool := surnames
	if opts.Top40 {
		pool = surnames[:topSurnameCount]
	}

	first := s.drawSurname(pool)
	if opts.OneSurname {
		return first
	}

	second := s.drawSurname(pool)
	for second == first {
		second = s.drawSurname(pool)
	}
	return first + " " + second
}

// drawSurname picks a surname and applies its particle prefix ("dos
// Santos", "da Silva") with the observed probability.
func (s *Sampler) drawSurname(pool []string) string {
	name := pool[s.rnd.IntN(len(pool))]

	for _, p := range surnamePrefixes[name] {
		if s.rnd.Float64() < p.probability {
			return p.particle + " " + name
		}
	}
	return name
}

// titleSurname lowercases an all-caps surname into display form,
// keeping particles lowercase.
func titleSurname(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		switch strings.ToLower(w) {
		case "dos", "das", "da", "de", "do", "e":
			words[i] = strings.ToLower(w)
		default:
			r := []rune(strings.ToLower(w))
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}
