package image

import "github.com/bodgit/gpc/interlace"

// verticalTransform copies each scanline of the planar buffer into the slot
// given by order, leaving one spare byte in front of every line for the
// horizontal step marker. Every line except the first is then XORed with
// the unfiltered line above it, so decoding XORs forwards from the top.
func verticalTransform(planar []byte, stride, height int, order interlace.Permutation) []byte {
	rowLen := stride + 1

	work := make([]byte, rowLen*height)
	for dst, src := range order {
		copy(work[dst*rowLen+1:(dst+1)*rowLen], planar[src*stride:(src+1)*stride])
	}

	// Bottom up, so the line above is still unfiltered
	for y := height - 1; y > 0; y-- {
		cur := work[y*rowLen+1 : (y+1)*rowLen]
		prev := work[(y-1)*rowLen+1 : y*rowLen]
		for i := range cur {
			cur[i] ^= prev[i]
		}
	}

	return work
}
