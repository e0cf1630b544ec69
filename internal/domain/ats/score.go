package ats

import (
	"encoding/json"
	"regexp"
	"strconv"
)

var firstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Score is a model-estimated match percentage. A zero Score is the
// "not determined" state and serialises as JSON null.
type Score struct {
	Value      float64
	Determined bool
}

// ParseScore takes the first number that appears in a model response.
func ParseScore(text string) Score {
	m := firstNumber.FindString(text)
	if m == "" {
		return Score{}
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return Score{}
	}
	return Score{Value: v, Determined: true}
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Determined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s *Score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Score{}
		return nil
	}
	if err := json.Unmarshal(b, &s.Value); err != nil {
		return err
	}
	s.Determined = true
	return nil
}

func (s Score) String() string {
	if !s.Determined {
		return "N/A"
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}
