package economy

import "math"

// floorEpsilon absorbs float error in products like 5*0.6 before flooring.
const floorEpsilon = 1e-9

// Clamp limits v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits a fraction to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Mitigation returns the fraction of an effect removed by count buildings at
// perBuilding each, capped at 100%.
func Mitigation(count int, perBuilding float64) float64 {
	if count <= 0 || perBuilding <= 0 {
		return 0
	}
	return Clamp01(float64(count) * perBuilding)
}

// Effect scales a base effect by severity and difficulty, then removes the
// mitigated share. The result is never negative.
func Effect(base float64, severity int, difficulty, mitigation float64) float64 {
	v := base * float64(severity) * difficulty * (1 - Clamp01(mitigation))
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// FloorCount floors a non-negative quantity to a whole count.
func FloorCount(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Floor(v + floorEpsilon))
}
