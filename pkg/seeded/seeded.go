// Package seeded provides deterministic pseudo-variance derived from identity
// strings. Entities get stable individual quirks (scouting error, greed,
// optimism) without any RNG state: the same seeds always produce the same
// value, across processes and across save/load cycles.
package seeded

// Large prime modulus for the rolling hash. Keeping the accumulator below
// 2^31 means h*31+c never overflows uint64.
const modulus = 2147483647

// separator is folded in between seeds so that Float("ab", "c") and
// Float("a", "bc") diverge.
const separator = 0x1f

// Float maps one or more seed strings to a stable scalar in [0, 1).
// The reduction is a rolling multiply-add over the character codes,
// reduced modulo a large prime.
func Float(seeds ...string) float64 {
	var h uint64 = 17
	for _, s := range seeds {
		for _, r := range s {
			h = (h*31 + uint64(r)) % modulus
		}
		h = (h*31 + separator) % modulus
	}
	return float64(h) / float64(modulus)
}

// Jitter remaps Float onto [-spread, +spread]. Used for per-entity
// perception error and negotiation temperament.
func Jitter(spread float64, seeds ...string) float64 {
	return (Float(seeds...)*2 - 1) * spread
}
