package recommend_test

import (
	"testing"

	"github.com/amonks/encore/recommend"
	"github.com/amonks/encore/similarity"
	"github.com/stretchr/testify/assert"
)

var example = similarity.Matrix{
	{1.0, 0.9, 0.2},
	{0.9, 1.0, 0.1},
	{0.2, 0.1, 1.0},
}

func TestRank(t *testing.T) {
	got, err := recommend.Rank(example, 0, 6)
	assert.NoError(t, err)
	assert.Equal(t, []recommend.Scored{
		{Index: 1, Score: 0.9},
		{Index: 2, Score: 0.2},
	}, got)
}

func TestRankExcludesSelf(t *testing.T) {
	for index := 0; index < example.Dim(); index++ {
		got, err := recommend.Rank(example, index, 6)
		assert.NoError(t, err)
		for _, sc := range got {
			assert.NotEqual(t, index, sc.Index)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	m := similarity.Matrix{
		{1.0, 0.3, 0.7, 0.3, 0.9},
		{0.3, 1.0, 0.3, 0.3, 0.3},
		{0.7, 0.3, 1.0, 0.3, 0.7},
		{0.3, 0.3, 0.3, 1.0, 0.3},
		{0.9, 0.3, 0.7, 0.3, 1.0},
	}

	for index := 0; index < m.Dim(); index++ {
		got, err := recommend.Rank(m, index, 6)
		assert.NoError(t, err)
		assert.Len(t, got, m.Dim()-1)
		for i := 1; i < len(got); i++ {
			a, b := got[i-1], got[i]
			assert.GreaterOrEqual(t, a.Score, b.Score)
			if a.Score == b.Score {
				assert.Less(t, a.Index, b.Index)
			}
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	m := similarity.Matrix{
		{1.0, 0.5, 0.5, 0.5},
		{0.5, 1.0, 0.5, 0.5},
		{0.5, 0.5, 1.0, 0.5},
		{0.5, 0.5, 0.5, 1.0},
	}

	got, err := recommend.Rank(m, 2, 6)
	assert.NoError(t, err)
	assert.Equal(t, []recommend.Scored{
		{Index: 0, Score: 0.5},
		{Index: 1, Score: 0.5},
		{Index: 3, Score: 0.5},
	}, got)
}

func TestRankSizeBound(t *testing.T) {
	got, err := recommend.Rank(example, 0, 1)
	assert.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = recommend.Rank(example, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 0)

	single := similarity.Matrix{{1.0}}
	got, err = recommend.Rank(single, 0, 6)
	assert.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestRankIndexOutOfRange(t *testing.T) {
	_, err := recommend.Rank(example, 3, 6)
	assert.ErrorIs(t, err, recommend.ErrIndexOutOfRange)

	_, err = recommend.Rank(example, -1, 6)
	assert.ErrorIs(t, err, recommend.ErrIndexOutOfRange)
}
