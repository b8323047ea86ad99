// Package sentiment scores headlines with a fixed term-weight lexicon and
// rolls the scores up into daily sentiment observations.
package sentiment

import (
	"math"
	"strings"
)

type Model string

const (
	ModelVADER   Model = "VADER"
	ModelFinBERT Model = "FINBERT"
)

// ParseModel maps a request model name onto a lexicon. Unknown names score
// with the generic lexicon, like VADER.
func ParseModel(name string) Model {
	if strings.EqualFold(strings.TrimSpace(name), string(ModelFinBERT)) {
		return ModelFinBERT
	}
	return ModelVADER
}

var genericLexicon = map[string]float64{
	"gain":      1.6,
	"growth":    1.4,
	"rally":     1.8,
	"beat":      1.7,
	"strong":    1.1,
	"upgrade":   1.6,
	"jump":      1.5,
	"improve":   1.2,
	"risk":      -1.1,
	"weak":      -1.3,
	"miss":      -1.7,
	"slump":     -1.8,
	"downgrade": -1.6,
	"crash":     -2.2,
	"fall":      -1.4,
	"volatile":  -0.6,
}

var financeLexicon = map[string]float64{
	"bullish":    2.1,
	"outperform": 2,
	"guidance":   0.9,
	"margin":     0.8,
	"buyback":    1.4,
	"inflow":     1.1,
	"beat":       1.6,
	"miss":       -1.8,
	"bearish":    -2.1,
	"downgrades": -1.6,
	"recession":  -1.7,
	"inflation":  -0.9,
	"outflow":    -1.2,
	"lawsuit":    -1.4,
	"default":    -2,
}

// finbertLexicon is generic merged with finance; finance wins on collisions.
var finbertLexicon = mergeLexicons(genericLexicon, financeLexicon)

var negations = map[string]struct{}{
	"no": {}, "not": {}, "never": {}, "without": {}, "hardly": {},
}

var intensifiers = map[string]struct{}{
	"very": {}, "highly": {}, "significantly": {}, "extremely": {},
}

const (
	negationFactor    = -0.7
	intensifierFactor = 1.25
)

func mergeLexicons(base, override map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func lexiconFor(model Model) map[string]float64 {
	if model == ModelFinBERT {
		return finbertLexicon
	}
	return genericLexicon
}

// Weight reports the lexicon weight of a cleaned token under model.
func Weight(token string, model Model) (float64, bool) {
	w, ok := lexiconFor(model)[token]
	return w, ok
}

// Tokenize splits on whitespace, lower-cases and keeps only a-z in each
// token. Tokens that end up empty are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		var b strings.Builder
		for _, r := range strings.ToLower(f) {
			if r >= 'a' && r <= 'z' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
		}
	}
	return tokens
}

// ScoreHeadline returns the length-normalized polarity of text.
func ScoreHeadline(text string, model Model) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	lexicon := lexiconFor(model)

	var sum float64
	for i, token := range tokens {
		weight, ok := lexicon[token]
		if !ok || weight == 0 {
			continue
		}
		if i > 0 {
			prev := tokens[i-1]
			if _, neg := negations[prev]; neg {
				weight *= negationFactor
			}
			if _, boost := intensifiers[prev]; boost {
				weight *= intensifierFactor
			}
		}
		sum += weight
	}
	return sum / math.Max(1, math.Sqrt(float64(len(tokens))))
}
