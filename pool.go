package impulse

// pool is a growable arena addressed by index. Items are added with expand and
// referenced by the returned index, so growing the backing array never
// invalidates a reference. reset empties the pool but keeps its capacity.
type pool[T any] struct {
	items []T
}

// expand appends one zero item and returns its index.
func (p *pool[T]) expand() int {
	var zero T
	p.items = append(p.items, zero)
	return len(p.items) - 1
}

// expandN appends n zero items and returns the index of the first.
func (p *pool[T]) expandN(n int) int {
	first := len(p.items)
	if cap(p.items)-first < n {
		grown := make([]T, first, first+n+first/2)
		copy(grown, p.items)
		p.items = grown
	}
	p.items = p.items[:first+n]
	clear(p.items[first:])
	return first
}

// at returns a pointer to item i. It is valid until the next expand.
func (p *pool[T]) at(i int) *T {
	return &p.items[i]
}

func (p *pool[T]) len() int {
	return len(p.items)
}

func (p *pool[T]) reset() {
	clear(p.items)
	p.items = p.items[:0]
}

// identityOrder fills order with 0..n-1, reusing its storage.
func identityOrder(order []int, n int) []int {
	if cap(order) < n {
		order = make([]int, n)
	}
	order = order[:n]
	for i := range order {
		order[i] = i
	}
	return order
}
