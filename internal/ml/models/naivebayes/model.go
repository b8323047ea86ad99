// Package naivebayes is a multinomial naive Bayes classifier for headline text.
package naivebayes

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const DefaultVocabLimit = 6000

type Document struct {
	Text  string
	Label int
}

type Model struct {
	vocab   map[string]struct{}
	counts  [2]map[string]int
	logPrio [2]float64
	denom   [2]float64
}

var (
	bytesPrefix  = regexp.MustCompile(`^b['"]`)
	trailingMark = regexp.MustCompile(`['"]$`)
	nonAlnum     = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
	spaces       = regexp.MustCompile(`\s+`)
)

// Clean strips python bytes-literal wrapping (b'...'), replaces anything
// that is not a letter, digit or space with a space and lower-cases.
func Clean(text string) string {
	s := bytesPrefix.ReplaceAllString(text, "")
	s = trailingMark.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `\'`, "'")
	s = nonAlnum.ReplaceAllString(s, " ")
	s = strings.ToLower(s)
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokenize keeps cleaned tokens of at least two characters.
func Tokenize(text string) []string {
	parts := strings.Split(Clean(text), " ")
	out := parts[:0]
	for _, p := range parts {
		if len(p) >= 2 {
			out = append(out, p)
		}
	}
	return out
}

// Train builds a vocabulary of the vocabLimit most frequent tokens (ties
// keep first-seen order) and Laplace-smoothed per-class word likelihoods.
func Train(docs []Document, vocabLimit int) (*Model, error) {
	if len(docs) == 0 {
		return nil, errors.New("no training documents")
	}
	if vocabLimit <= 0 {
		vocabLimit = DefaultVocabLimit
	}

	tokenized := make([][]string, len(docs))
	freq := make(map[string]int)
	var order []string
	for i, d := range docs {
		tokenized[i] = Tokenize(d.Text)
		for _, w := range tokenized[i] {
			if _, seen := freq[w]; !seen {
				order = append(order, w)
			}
			freq[w]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })
	if len(order) > vocabLimit {
		order = order[:vocabLimit]
	}

	m := &Model{vocab: make(map[string]struct{}, len(order))}
	for _, w := range order {
		m.vocab[w] = struct{}{}
	}
	m.counts[0] = make(map[string]int)
	m.counts[1] = make(map[string]int)

	var docCount [2]int
	var totals [2]int
	for i, d := range docs {
		c := classOf(d.Label)
		docCount[c]++
		for _, w := range tokenized[i] {
			if _, ok := m.vocab[w]; !ok {
				continue
			}
			m.counts[c][w]++
			totals[c]++
		}
	}

	prior1 := float64(docCount[1]+1) / float64(docCount[0]+docCount[1]+2)
	m.logPrio[1] = math.Log(prior1)
	m.logPrio[0] = math.Log(1 - prior1)
	for c := 0; c < 2; c++ {
		m.denom[c] = float64(totals[c] + len(order))
	}
	return m, nil
}

func classOf(label int) int {
	if label > 0 {
		return 1
	}
	return 0
}

func (m *Model) VocabularySize() int { return len(m.vocab) }

// Predict returns P(up) and the label it implies (1 when P(up) >= 0.5).
// Log scores are shifted by their max before exponentiating.
func (m *Model) Predict(text string) (float64, int) {
	s := m.logPrio
	for _, w := range Tokenize(text) {
		if _, ok := m.vocab[w]; !ok {
			continue
		}
		for c := 0; c < 2; c++ {
			s[c] += math.Log(float64(m.counts[c][w]+1) / m.denom[c])
		}
	}
	top := math.Max(s[0], s[1])
	p1 := math.Exp(s[1] - top)
	p0 := math.Exp(s[0] - top)
	probUp := p1 / (p1 + p0)
	if probUp >= 0.5 {
		return probUp, 1
	}
	return probUp, 0
}
