// internal/feed/shuffle.go

package feed

// Shuffle permutes rows in place using a Fisher-Yates walk driven by a
// linear congruential generator. The same seed always produces the same
// permutation, so explore pagination stays stable across pages while the
// seed is held.
func Shuffle(rows []PostRow, seed int64) {
	state := uint64(seed)
	for i := len(rows) - 1; i > 0; i-- {
		state = state*6364136223846793005 + 1442695040888963407
		j := int((state >> 33) % uint64(i+1))
		rows[i], rows[j] = rows[j], rows[i]
	}
}
