package world

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// DeterministicSeedValue derives a stable RNG seed from a root seed and a
// subsystem label.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG returns an RNG seeded from rootSeed and label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	seedValue := DeterministicSeedValue(rootSeed, label)
	return rand.New(rand.NewSource(seedValue))
}

// RandomFloat returns a value in [0, 1). A nil rng falls back to the default
// seed so results stay reproducible.
func RandomFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.New(rand.NewSource(DeterministicSeedValue(DefaultSeed, "world"))).Float64()
	}
	return rng.Float64()
}

// RandomAngle returns an angle in [0, 2π).
func RandomAngle(rng *rand.Rand) float64 {
	return RandomFloat(rng) * 2 * math.Pi
}

// RandMinMax returns a value in [min, max).
func RandMinMax(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + RandomFloat(rng)*(max-min)
}

// RandValRange returns a value in [val-spread, val+spread).
func RandValRange(rng *rand.Rand, val, spread float64) float64 {
	return RandomFloat(rng)*(spread*2) + val - spread
}
