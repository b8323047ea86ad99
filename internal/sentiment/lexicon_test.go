package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreHeadlineEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n", "123 !!! 456"} {
		assert.Equal(t, 0.0, ScoreHeadline(text, ModelVADER), "text %q", text)
		assert.Equal(t, 0.0, ScoreHeadline(text, ModelFinBERT), "text %q", text)
	}
}

func TestScoreHeadlineNegation(t *testing.T) {
	for word, w := range genericLexicon {
		got := ScoreHeadline("not "+word, ModelVADER)
		assert.InDelta(t, -0.7*w/math.Sqrt2, got, 1e-12, word)
	}
}

func TestScoreHeadlineIntensifier(t *testing.T) {
	got := ScoreHeadline("extremely bullish", ModelFinBERT)
	assert.InDelta(t, 2.1*1.25/math.Sqrt2, got, 1e-12)
}

func TestScoreHeadlineNormalizesByLength(t *testing.T) {
	got := ScoreHeadline("Markets RALLY, on strong growth!", ModelVADER)
	assert.InDelta(t, (1.8+1.1+1.4)/math.Sqrt(5), got, 1e-12)
}

func TestFinBERTOverridesGenericWeights(t *testing.T) {
	assert.InDelta(t, 1.7, ScoreHeadline("beat", ModelVADER), 1e-12)
	assert.InDelta(t, 1.6, ScoreHeadline("beat", ModelFinBERT), 1e-12)
	assert.Equal(t, 0.0, ScoreHeadline("bullish", ModelVADER))

	w, ok := Weight("miss", ModelFinBERT)
	assert.True(t, ok)
	assert.Equal(t, -1.8, w)
}

func TestParseModel(t *testing.T) {
	assert.Equal(t, ModelFinBERT, ParseModel(" finbert "))
	assert.Equal(t, ModelVADER, ParseModel("VADER"))
	assert.Equal(t, ModelVADER, ParseModel("something-else"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"its", "q", "beat"}, Tokenize("It's Q3 -- beat"))
}
