package utils

// MetersToYardsFactor converts meters to yards. The engine is metric
// throughout; this conversion is applied only at the presentation edge.
const MetersToYardsFactor = 1.09361

func MetersToYards(m float64) float64 {
	return m * MetersToYardsFactor
}
