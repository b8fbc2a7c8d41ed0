package service

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRemovedOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("4 opsi: buang 2 yang salah", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			removed := PickRemovedOptions(4, 1, rng)
			require.Len(t, removed, 2)
			assert.True(t, sort.IntsAreSorted(removed), "harus ascending: %v", removed)
			for _, idx := range removed {
				assert.NotEqual(t, 1, idx, "kunci jawaban tidak boleh dibuang")
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, 4)
			}
		}
	})

	t.Run("3 opsi: tetap buang 2", func(t *testing.T) {
		removed := PickRemovedOptions(3, 0, rng)
		assert.Equal(t, []int{1, 2}, removed)
	})

	t.Run("2 opsi: cuma 1 yang bisa dibuang", func(t *testing.T) {
		removed := PickRemovedOptions(2, 0, rng)
		assert.Equal(t, []int{1}, removed)

		removed = PickRemovedOptions(2, 1, rng)
		assert.Equal(t, []int{0}, removed)
	})

	t.Run("seed sama hasil sama", func(t *testing.T) {
		a := PickRemovedOptions(4, 2, rand.New(rand.NewSource(7)))
		b := PickRemovedOptions(4, 2, rand.New(rand.NewSource(7)))
		assert.Equal(t, a, b)
	})
}
