// Package datasets implements mini-batch slicing shared by the genetune commands
package datasets

// Chunk splits n items into batch index ranges of at most size elements.
// The final range may be short; it is never empty.
func Chunk(n, size int) [][2]int {
	if size < 1 {
		size = 1
	}
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}
