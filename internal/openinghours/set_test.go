package openinghours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSet(t *testing.T) {
	ranges, err := ParseSelector("Mo-Fr,Sa[1,3],Mo-Fr,Sa[3,1],Sa[1,3],Su")
	require.NoError(t, err)

	set := NewRangeSet(ranges...)
	assert.Equal(t, 4, set.Len())
	assert.Equal(t, "Mo-Fr,Sa[1,3],Sa[3,1],Su", set.String())

	assert.True(t, set.Contains(newRange(Sunday, 0)))
	assert.False(t, set.Contains(newRange(Sunday, 0, Nth{Start: 1})))
	assert.False(t, set.Contains(nil))

	assert.False(t, set.Add(newRange(Monday, Friday)))
	assert.True(t, set.Add(newRange(Monday, Friday, Nth{Start: 1})), "hidden nths make a distinct value")
	assert.False(t, set.Add(nil))
	assert.Equal(t, 5, set.Len())
	assert.Same(t, ranges[0], set.Ranges()[0], "first occurrence is kept")
}

func TestRangeSet_Empty(t *testing.T) {
	set := NewRangeSet()
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, "", set.String())
	assert.Empty(t, set.Ranges())
}
