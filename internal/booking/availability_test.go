package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	assert.Equal(t, []uint64{3, 1, 2}, Dedupe([]uint64{3, 1, 3, 0, 2, 1}))
	assert.Empty(t, Dedupe([]uint64{0, 0}))
	assert.Empty(t, Dedupe(nil))
}

func TestPartition(t *testing.T) {
	taken := map[uint64]struct{}{2: {}, 4: {}}

	available, conflicted := Partition([]uint64{1, 2, 3, 4, 5}, taken)
	assert.Equal(t, []uint64{1, 3, 5}, available)
	assert.Equal(t, []uint64{2, 4}, conflicted)

	available, conflicted = Partition([]uint64{1, 3}, taken)
	assert.Equal(t, []uint64{1, 3}, available)
	assert.Empty(t, conflicted)

	available, conflicted = Partition(nil, taken)
	assert.Empty(t, available)
	assert.Empty(t, conflicted)
}
