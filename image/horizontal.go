package image

import (
	"sync"

	"github.com/bodgit/gpc/interlace"
)

// horizontalOrders returns the column ordering for every step from 1 to
// maxHorizontalStep, indexed by step. Index 0 is nil.
func horizontalOrders(stride int) []interlace.Permutation {
	orders := make([]interlace.Permutation, maxHorizontalStep+1)
	for step := 1; step <= maxHorizontalStep; step++ {
		orders[step] = interlace.New(stride, step)
	}
	return orders
}

// filterRow writes the marker byte and the filtered payload of src into dst.
// Step 0 is a plain copy. Otherwise every byte is XORed with the unfiltered
// byte preceding it in the interlaced order; bytes keep their positions.
func filterRow(dst, src []byte, step int, order interlace.Permutation) {
	dst[0] = byte(step)
	if step == 0 {
		copy(dst[1:], src)
		return
	}

	var last byte
	for _, i := range order {
		next := src[i]
		dst[i+1] = last ^ next
		last = next
	}
}

// rowCost estimates how many bits a marker and payload would pack into.
// Each non-zero byte costs 8 bits and every run of 8 zero bytes saves 8. The
// run is broken whenever the running alignment, which starts at align,
// crosses a multiple of 8.
func rowCost(row []byte, align int) int {
	var bits, run int
	for _, b := range row {
		if b != 0 {
			bits += 8
			run = 0
		} else {
			run = (run + 1) & 7
			if run == 0 {
				bits -= 8
			}
		}
		align = (align + 1) & 7
		if align == 0 {
			run = 0
		}
	}
	return bits
}

type rowSearch struct {
	orders     []interlace.Permutation
	candidates [][]byte
}

func newRowSearch(stride int, orders []interlace.Permutation) *rowSearch {
	s := &rowSearch{
		orders:     orders,
		candidates: make([][]byte, len(orders)),
	}
	for i := range s.candidates {
		s.candidates[i] = make([]byte, stride+1)
	}
	return s
}

// apply replaces line, marker included, with the cheapest of its candidates
// and returns the step chosen. The lowest step wins a tie.
func (s *rowSearch) apply(line []byte, align int) int {
	best, bestBits := 0, 0
	for step, c := range s.candidates {
		filterRow(c, line[1:], step, s.orders[step])
		if bits := rowCost(c, align); step == 0 || bits < bestBits {
			best, bestBits = step, bits
		}
	}
	copy(line, s.candidates[best])
	return best
}

// horizontalTransform runs the per-line search over the work buffer. Lines
// are independent so they are split into bands across workers goroutines,
// each with its own candidate scratch.
func horizontalTransform(work []byte, stride, height, workers int, orders []interlace.Permutation) {
	rowLen := stride + 1

	search := func(y0, y1 int) {
		s := newRowSearch(stride, orders)
		for y := y0; y < y1; y++ {
			s.apply(work[y*rowLen:(y+1)*rowLen], y*rowLen+1)
		}
	}

	if workers > height {
		workers = height
	}
	if workers <= 1 {
		search(0, height)
		return
	}

	band := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			search(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
