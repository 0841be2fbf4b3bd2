package sat

import (
	"math/bits"
	"sync"
)

// Number of literal-slice pools.
const nPools = 4

// Capacities of at least lastPoolCapa always map to the last pool.
const lastPoolCapa = 1 << nPools

// Pools of literal slices with different capacities. poolFor maps a
// capacity c to pool floor(log2(c)), clamped to [0, nPools-1]: pool 0 holds
// capacities below 2, pool i (0 < i < nPools-1) capacities from 2^i to
// 2^(i+1)-1, and the last pool, with no upper bound, capacities of at least
// 2^(nPools-1). Reusing literal backing arrays across clause deletion and
// clause learning avoids most of the allocator churn a CDCL search loop
// would otherwise produce.
var literalPools = [nPools]sync.Pool{}

// poolFor returns the ID of the smallest pool that can serve a slice of the
// requested capacity.
func poolFor(capa int) int {
	if lastPoolCapa <= capa {
		return nPools - 1
	}
	id := bits.Len(uint(capa)) - 1
	if id < 0 {
		id = 0
	}
	if capa < (1 << id) {
		id--
	}
	if id < 0 {
		id = 0
	}
	return id
}

// allocLiterals returns an empty slice with at least the requested capacity,
// reusing a pooled backing array when one is available.
func allocLiterals(capa int) []Literal {
	id := poolFor(capa)

	if ref, ok := literalPools[id].Get().(*[]Literal); ok && capa <= cap(*ref) {
		return (*ref)[:0]
	}

	if id < nPools-1 {
		return make([]Literal, 0, 2<<id)
	}
	if capa <= lastPoolCapa*2 {
		return make([]Literal, 0, lastPoolCapa*2)
	}
	return make([]Literal, 0, capa)
}

// freeLiterals returns s's backing array to the pool so it can be reused by
// a future allocLiterals call.
func freeLiterals(s []Literal) {
	s = s[:0]
	literalPools[poolFor(cap(s))].Put(&s)
}
