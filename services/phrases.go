package services

import "strings"

// PhraseMap turns raw form codes into phrases for the prompt.
// A code with no entry is returned unchanged.
type PhraseMap map[string]string

// Phrase returns the phrase for code, or code itself when the table has no entry.
func (m PhraseMap) Phrase(code string) string {
	if p, ok := m[code]; ok {
		return p
	}
	return code
}

// Phrases maps every code in order.
func (m PhraseMap) Phrases(codes []string) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = m.Phrase(c)
	}
	return out
}

// CompanionPhrases covers the four companion categories the trip form offers.
var CompanionPhrases = PhraseMap{
	"solo":    "solo traveler",
	"partner": "couple",
	"friends": "group of friends",
	"family":  "family with children",
}

// ActivityPhrases covers the travel preference tags stored on user profiles.
var ActivityPhrases = PhraseMap{
	"adventure":  "adventure and outdoor activities",
	"culture":    "culture and history",
	"relaxation": "relaxation and wellness",
	"food":       "food and culinary experiences",
	"eco":        "eco-tourism and nature",
	"luxury":     "luxury experiences",
	"nightlife":  "nightlife",
	"shopping":   "shopping",
}

func joinPhrases(phrases []string) string {
	return strings.Join(phrases, ", ")
}
