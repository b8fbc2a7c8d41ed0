package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	cases := []struct {
		name   string
		quiz   float64
		exam   float64
		weight int
		want   int
	}{
		{"bobot 70", 90, 60, 70, 69},
		{"bobot minimum 51", 80, 60, 51, 70},
		{"bobot maksimum 100", 95, 60, 100, 60},
		{"semua sempurna", 100, 100, 70, 100},
		{"semua nol", 0, 0, 60, 0},
		{"pembulatan ke atas", 85, 70, 70, 75}, // 25.5 + 49 = 74.5 → 75
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeTotal(tc.quiz, tc.exam, tc.weight))
		})
	}
}
