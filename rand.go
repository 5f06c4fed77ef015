package impulse

// lcg is the linear congruential generator behind row reordering.
// The same seed yields the same permutations on every platform.
type lcg struct {
	seed uint32
}

// next advances the generator: seed = (1664525*seed + 1013904223) mod 2^32.
func (r *lcg) next() uint32 {
	r.seed = 1664525*r.seed + 1013904223
	return r.seed
}

// intn returns a value in [0, n). The high bits are folded into the low
// ones for small n, as the low bits of an LCG have short periods.
func (r *lcg) intn(n int) int {
	un := uint32(n)
	x := r.next()

	if un <= 0x00010000 {
		x ^= x >> 16
		if un <= 0x00000100 {
			x ^= x >> 8
			if un <= 0x00000010 {
				x ^= x >> 4
				if un <= 0x00000004 {
					x ^= x >> 2
					if un <= 0x00000002 {
						x ^= x >> 1
					}
				}
			}
		}
	}
	return int(x % un)
}

// shuffle permutes order in place.
func (r *lcg) shuffle(order []int) {
	for j := range order {
		swap := r.intn(j + 1)
		order[j], order[swap] = order[swap], order[j]
	}
}
