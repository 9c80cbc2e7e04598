// Package geofence calcula distancias sobre la esfera y clasifica una coordenada
// contra las zonas circulares visibles para un alcance.
package geofence

import (
	"math"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// EarthRadiusMeters radio medio terrestre usado por la fórmula de haversine.
const EarthRadiusMeters = 6371000.0

// Point coordenada en grados decimales.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid latitud en [-90, 90] y longitud en [-180, 180].
func (p Point) Valid() bool {
	return !math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude) &&
		p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Result clasificación de una coordenada. ZoneID/ZoneName solo cuando Status es inside;
// DistanceMeters es la distancia a la zona que contiene el punto o a la más cercana.
type Result struct {
	Status         string
	ZoneID         string
	ZoneName       string
	DistanceMeters *float64
}

// Unchecked resultado cuando no hay zonas o no se pudieron consultar.
func Unchecked() Result {
	return Result{Status: entity.GeofenceUnchecked}
}

// Distance distancia de círculo máximo en metros (haversine).
func Distance(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Classify recorre las zonas en el orden recibido y devuelve la primera que contiene
// el punto (distancia <= radio). Las zonas inactivas se ignoran.
func Classify(p Point, zones []*entity.GeofenceZone) Result {
	var (
		nearest *float64
		checked bool
	)
	for _, z := range zones {
		if z == nil || !z.IsActive {
			continue
		}
		checked = true
		d := Distance(p, Point{Latitude: z.Latitude, Longitude: z.Longitude})
		if d <= z.RadiusMeters {
			return Result{Status: entity.GeofenceInside, ZoneID: z.ID, ZoneName: z.Name, DistanceMeters: &d}
		}
		if nearest == nil || d < *nearest {
			v := d
			nearest = &v
		}
	}
	if !checked {
		return Unchecked()
	}
	return Result{Status: entity.GeofenceOutside, DistanceMeters: nearest}
}
