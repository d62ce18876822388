package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioIdenticalStreamsIs100(t *testing.T) {
	tokens := []string{"INT", "MAIN", "(", ")", "{", "RETURN", "0", ";", "}"}
	assert.Equal(t, 100.0, Ratio(tokens, tokens))
}

func TestRatioCompletelyDifferentIsZero(t *testing.T) {
	a := []string{"INT", "A"}
	b := []string{"VOID", "B"}
	assert.Equal(t, 0.0, Ratio(a, b))
}

func TestRatioIsSymmetric(t *testing.T) {
	a := []string{"INT", "MAIN", "(", ")", "RETURN", "0"}
	b := []string{"INT", "MAIN", "(", ")", "RETURN", "1"}
	assert.Equal(t, Ratio(a, b), Ratio(b, a))
}

func TestRatioPartialOverlap(t *testing.T) {
	a := []string{"INT", "MAIN", "(", ")", "{", "RETURN", "0", ";", "}"}
	b := []string{"INT", "MAIN", "(", ")", "{", "RETURN", "1", ";", "}"}
	ratio := Ratio(a, b)
	assert.Greater(t, ratio, 50.0)
	assert.Less(t, ratio, 100.0)
}

func TestRatioBothEmptyIsFullMatch(t *testing.T) {
	assert.Equal(t, 100.0, Ratio(nil, nil))
}
