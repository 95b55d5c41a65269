// Package speech synthesizes and plays assistant replies, owning mutual
// exclusion against utterance capture.
package speech

import "strings"

// Voice describes one synthesis voice candidate.
type Voice struct {
	Name     string   `yaml:"name" json:"name"`
	Language string   `yaml:"language" json:"language"`
	Gender   string   `yaml:"gender" json:"gender"` // "male", "female" or empty
	Tags     []string `yaml:"tags" json:"tags"`     // quality tags: premium, neural, enhanced
	Local    bool     `yaml:"local" json:"local"`
}

// Score rates a voice candidate against the wanted language and gender
// preference. Language match dominates, then gender preference, then the
// declared quality tags.
func Score(v Voice, language, gender string) int {
	score := 0

	if v.Language == language {
		score += 100
	} else if base, _, _ := strings.Cut(language, "-"); base != "" && strings.HasPrefix(v.Language, base) {
		score += 80
	}

	switch gender {
	case "female", "male":
		if v.Gender == gender {
			score += 50
		}
	case "neutral":
		score += 25
	}

	for _, tag := range v.Tags {
		switch tag {
		case "premium":
			score += 30
		case "neural":
			score += 25
		case "enhanced":
			score += 20
		}
	}
	if v.Local {
		score += 10
	}

	return score
}

// Select returns the highest-scoring voice for the language and gender
// preference. Ties keep the first candidate found. ok is false only for an
// empty inventory.
func Select(voices []Voice, language, gender string) (Voice, bool) {
	if len(voices) == 0 {
		return Voice{}, false
	}
	best := voices[0]
	bestScore := Score(best, language, gender)
	for _, v := range voices[1:] {
		if s := Score(v, language, gender); s > bestScore {
			best = v
			bestScore = s
		}
	}
	return best, true
}
