package similarity

import "sync"

// pairCache memoizes the similarity score for a pair of student IDs within
// one question, keyed regardless of argument order. It is scoped to a
// single Engine.Detect call, never shared across questions.
type pairCache struct {
	mu    sync.Mutex
	cache map[string]float64
}

func newPairCache() *pairCache {
	return &pairCache{cache: make(map[string]float64)}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// getOrCompute returns the cached similarity for (a, b) if present,
// otherwise runs compute, stores, and returns the result.
func (c *pairCache) getOrCompute(a, b string, compute func() float64) float64 {
	key := pairKey(a, b)

	c.mu.Lock()
	if v, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	c.cache[key] = v
	c.mu.Unlock()
	return v
}
