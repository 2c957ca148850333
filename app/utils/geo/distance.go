package geo

import "math"

const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Point is a coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

func (p Point) Valid() bool {
	return ValidLatitude(p.Lat) && ValidLongitude(p.Lng)
}

func (p Point) DistanceTo(q Point) float64 {
	return Distance(p.Lat, p.Lng, q.Lat, q.Lng)
}
