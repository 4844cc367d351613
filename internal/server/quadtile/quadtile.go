// Package quadtile computes the spatial tile index used to bucket home
// locations for proximity queries. Coordinates are quantized to 16 bits per
// axis and bit-interleaved into a single 32-bit Morton index.
package quadtile

// TileForPoint returns the tile index for a latitude/longitude pair.
func TileForPoint(lat, lon float64) int64 {
	x := int64((lon+180.0)*65535.0/360.0 + 0.5)
	y := int64((lat+90.0)*65535.0/180.0 + 0.5)
	return TileForXY(x, y)
}

// TileForXY interleaves two 16-bit axis values, x bits in the even (higher)
// positions and y bits in the odd positions.
func TileForXY(x, y int64) int64 {
	var tile int64
	for i := 15; i >= 0; i-- {
		tile = (tile << 1) | ((x >> i) & 1)
		tile = (tile << 1) | ((y >> i) & 1)
	}
	return tile
}
