package material

import (
	log "github.com/sirupsen/logrus"
)

// Built-in conductivity catalog, W/(m·K) at typical operating temperature.
// The UI's persisted user catalog lives in the collaborator; these are the
// presets it seeds from.

type Kind int

const (
	KindPipe Kind = iota
	KindInsulation
	KindBedding
	KindSoil
)

type Material struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Kind         Kind    `json:"kind"`
	Conductivity float64 `json:"conductivity"`
}

var catalog = []Material{
	{1, "carbon steel", KindPipe, 50.0},
	{2, "ductile iron", KindPipe, 55.0},
	{3, "stainless steel", KindPipe, 15.0},
	{4, "polyethylene (PE)", KindPipe, 0.40},
	{5, "PVC", KindPipe, 0.19},

	{10, "PUR foam", KindInsulation, 0.027},
	{11, "mineral wool", KindInsulation, 0.040},
	{12, "foam glass", KindInsulation, 0.050},

	{20, "dry sand", KindBedding, 0.40},
	{21, "moist sand", KindBedding, 1.10},
	{22, "gravel", KindBedding, 0.90},
	{23, "lean concrete", KindBedding, 1.20},

	{30, "dry soil", KindSoil, 0.50},
	{31, "moist soil", KindSoil, 1.50},
	{32, "saturated soil", KindSoil, 2.40},
	{33, "clay", KindSoil, 1.20},
	{34, "rock", KindSoil, 3.00},
}

// All returns the full preset list.
func All() []Material {
	out := make([]Material, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a preset by catalog id.
func ByID(id int) (Material, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// Conductivity returns the preset conductivity, falling back to moist soil
// when the id is unknown.
func Conductivity(id int) float64 {
	m, ok := ByID(id)
	if !ok {
		log.Warn("unknown material id, using moist soil: ", id)
		return 1.5
	}
	return m.Conductivity
}
