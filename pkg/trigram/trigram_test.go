package trigram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("Sharma Traders", "sharma traders"))
}

func TestSimilarityDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestSimilarityEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "anything"))
	assert.Equal(t, 0.0, Similarity("   ", "anything"))
}

func TestSimilarityCloseNames(t *testing.T) {
	score := Similarity("Sharma Traders", "Sharma Trader")
	assert.Greater(t, score, 0.5)
	assert.Less(t, score, 1.0)
}

func TestSimilarityOrderIndependent(t *testing.T) {
	assert.Equal(t, Similarity("gupta stores", "gupta store"), Similarity("gupta store", "gupta stores"))
}
