package quadtile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileForXY(t *testing.T) {
	tests := []struct {
		name string
		x, y int64
		want int64
	}{
		{"origin", 0, 0, 0},
		{"x only sets even bits", 0xFFFF, 0, 0xAAAAAAAA},
		{"y only sets odd bits", 0, 0xFFFF, 0x55555555},
		{"both maxed", 0xFFFF, 0xFFFF, 0xFFFFFFFF},
		{"single x bit", 1, 0, 2},
		{"single y bit", 0, 1, 1},
		{"interleave", 2, 3, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TileForXY(tt.x, tt.y))
		})
	}
}

func TestTileForPoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     int64
	}{
		{"south west corner", -90, -180, 0},
		{"north east corner", 90, 180, 0xFFFFFFFF},
		{"null island", 0, 0, 3221225472},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TileForPoint(tt.lat, tt.lon))
		})
	}
}

// Nearby points should usually share high-order tile bits; far apart points
// should not produce the same tile.
func TestTileForPoint_Distinguishes(t *testing.T) {
	london := TileForPoint(51.5074, -0.1278)
	sydney := TileForPoint(-33.8688, 151.2093)
	assert.NotEqual(t, london, sydney)
}
