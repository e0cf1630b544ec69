package ats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Score
	}{
		{"integer", "Match score: 78/100. Strengths: Go", Score{Value: 78, Determined: true}},
		{"decimal", "**Score: 82.5** out of 100", Score{Value: 82.5, Determined: true}},
		{"first wins", "1. Score the match: 64\n2. 3 strengths", Score{Value: 1, Determined: true}},
		{"leading text", "The candidate scores 91 percent.", Score{Value: 91, Determined: true}},
		{"none", "The score could not be determined.", Score{}},
		{"empty", "", Score{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseScore(tc.text))
		})
	}
}

func TestScoreJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Score{"atsScore": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"atsScore":null}`, string(b))

	b, err = json.Marshal(map[string]Score{"atsScore": ParseScore("73")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"atsScore":73}`, string(b))
}

func TestScoreString(t *testing.T) {
	assert.Equal(t, "N/A", Score{}.String())
	assert.Equal(t, "82.5", ParseScore("82.5").String())
}
