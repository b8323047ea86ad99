package naivebayes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "georgia s downs two russian warplanes", Clean(`b"Georgia's 'downs two russian warplanes'"`))
	assert.Equal(t, "it s up", Clean(`b'It\'s UP!'`))
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	assert.Equal(t, []string{"markets", "up", "on", "q3"}, Tokenize("Markets up a on Q3 !"))
}

func TestTrainAndPredict(t *testing.T) {
	docs := []Document{
		{Text: "stocks rally strong gains", Label: 1},
		{Text: "markets rally on earnings beat", Label: 1},
		{Text: "record highs strong rally", Label: 1},
		{Text: "stocks crash war fears", Label: 0},
		{Text: "markets slump on recession fears", Label: 0},
	}
	m, err := Train(docs, 0)
	require.NoError(t, err)

	pUp, label := m.Predict("rally strong")
	assert.Greater(t, pUp, 0.5)
	assert.Equal(t, 1, label)

	pDown, label := m.Predict("crash fears")
	assert.Less(t, pDown, 0.5)
	assert.Equal(t, 0, label)
}

func TestPredictUnknownWordsUsesPrior(t *testing.T) {
	m, err := Train([]Document{{Text: "aa", Label: 1}, {Text: "bb", Label: 0}, {Text: "cc", Label: 0}}, 0)
	require.NoError(t, err)

	p, label := m.Predict("zz qq")
	assert.InDelta(t, 2.0/5, p, 1e-12)
	assert.Equal(t, 0, label)
}

func TestVocabularyLimitKeepsMostFrequent(t *testing.T) {
	m, err := Train([]Document{
		{Text: "alpha beta beta gamma gamma gamma", Label: 1},
		{Text: "delta", Label: 0},
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, m.VocabularySize())
	_, hasGamma := m.vocab["gamma"]
	_, hasBeta := m.vocab["beta"]
	_, hasAlpha := m.vocab["alpha"]
	assert.True(t, hasGamma)
	assert.True(t, hasBeta)
	assert.False(t, hasAlpha)
}

func TestPredictIsStableForLongDocuments(t *testing.T) {
	docs := []Document{{Text: "up up up", Label: 1}, {Text: "down down down", Label: 0}}
	m, err := Train(docs, 0)
	require.NoError(t, err)

	long := ""
	for i := 0; i < 5000; i++ {
		long += "up "
	}
	p, _ := m.Predict(long)
	assert.False(t, math.IsNaN(p))
	assert.InDelta(t, 1, p, 1e-9)
}

func TestTrainRejectsEmpty(t *testing.T) {
	_, err := Train(nil, 10)
	assert.Error(t, err)
}
