/*
Package interlace builds the fixed-step reorderings used by the GPC format to
group rows or columns of the same phase next to each other.

For a step s the indices 0..N-1 are split into s residue classes which are
concatenated in ascending order, so with N = 7 and s = 3 the ordering is:

	0 3 6 1 4 2 5

A step of 1 is the identity. A step of 0 means "no interlacing" and has no
ordering at all; callers treat it specially.
*/
package interlace

// Permutation lists, for each position in the interlaced order, the original
// index found there.
type Permutation []int

// New returns the ordering of size indices for the given step. Steps larger
// than size degenerate to the identity. A step of zero or less returns nil.
func New(size, step int) Permutation {
	if step <= 0 || size < 0 {
		return nil
	}
	p := make(Permutation, 0, size)
	for start := 0; start < step && start < size; start++ {
		for i := start; i < size; i += step {
			p = append(p, i)
		}
	}
	return p
}

// Table returns the ordering for each of steps. A zero step is skipped.
func Table(size int, steps ...int) map[int]Permutation {
	t := make(map[int]Permutation, len(steps))
	for _, step := range steps {
		if step == 0 {
			continue
		}
		t[step] = New(size, step)
	}
	return t
}

// Inverse returns q such that q[p[i]] == i.
func (p Permutation) Inverse() Permutation {
	q := make(Permutation, len(p))
	for i, v := range p {
		q[v] = i
	}
	return q
}
