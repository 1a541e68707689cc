// Package game runs a guessing round against a globe index: it keeps the
// session state and exposes the calls a front end makes.
package game

import (
	"sort"

	"github.com/samber/lo"
)

// Guess is one scored guess.
type Guess struct {
	Country    string  `json:"country"`
	DistanceKm float64 `json:"distanceKm"`
	Color      string  `json:"color"`
}

// Session is the state of one round. Transitions return a new value and
// never modify the receiver.
type Session struct {
	Target  string  `json:"target"`
	Guesses []Guess `json:"guesses"`
	Won     bool    `json:"won"`
}

// NewSession starts a round for target.
func NewSession(target string) Session {
	return Session{Target: target}
}

// Has reports whether country was already guessed.
func (s Session) Has(country string) bool {
	return lo.ContainsBy(s.Guesses, func(g Guess) bool { return g.Country == country })
}

// Find returns the earlier guess for country.
func (s Session) Find(country string) (Guess, bool) {
	return lo.Find(s.Guesses, func(g Guess) bool { return g.Country == country })
}

// Apply records g. Repeated guesses and guesses after a win are ignored.
// Guessing the target wins the round.
func (s Session) Apply(g Guess) Session {
	if s.Won || s.Has(g.Country) {
		return s
	}
	next := Session{
		Target:  s.Target,
		Guesses: make([]Guess, len(s.Guesses), len(s.Guesses)+1),
		Won:     g.Country == s.Target,
	}
	copy(next.Guesses, s.Guesses)
	next.Guesses = append(next.Guesses, g)
	return next
}

// Ranked returns the guesses closest first. Ties keep guess order.
func (s Session) Ranked() []Guess {
	out := make([]Guess, len(s.Guesses))
	copy(out, s.Guesses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}
