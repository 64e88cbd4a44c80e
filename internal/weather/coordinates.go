package weather

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Centroid returns the latitude and longitude of the geometric centroid of a
// municipality outline. GeoJSON coordinates are (lon, lat).
func Centroid(g geom.T) (lat, lon float64, err error) {
	if g == nil || g.Empty() {
		return 0, 0, fmt.Errorf("empty geometry")
	}
	c, err := xy.Centroid(g)
	if err != nil {
		return 0, 0, fmt.Errorf("computing centroid: %w", err)
	}
	return c.Y(), c.X(), nil
}
