package sat

// kissRNG is a combined generator (Marsaglia's KISS), used instead of the
// standard library's default source so that the random 1% of decisions
// (spec.md §4.4) are reproducible across runs for a fixed seed, independent
// of any global or thread-local state. Grounded on
// original_source/src/sat_solver.cpp's random_kiss, including its fixed
// default seed.
type kissRNG struct {
	s1, s2, s3, s4 uint64
}

func newKissRNG() *kissRNG {
	return &kissRNG{
		s1: 123456789,
		s2: 362436000,
		s3: 521288629,
		s4: 7654321,
	}
}

// next returns the next pseudo-random value in the sequence.
func (k *kissRNG) next() uint64 {
	k.s1 = 69069*k.s1 + 12345

	k.s2 ^= k.s2 << 13
	k.s2 ^= k.s2 >> 17
	k.s2 ^= k.s2 << 5

	t := 698769069*k.s3 + k.s4
	k.s4 = t >> 32
	k.s3 = k.s4

	return k.s1 + k.s2 + k.s3
}

// intn returns a pseudo-random value in [0, n).
func (k *kissRNG) intn(n int) int {
	return int(k.next() % uint64(n))
}
