package image

import "github.com/bodgit/gpc/interlace"

// Compress encodes a planar buffer of width by height pixels, as produced by
// splitting the image into bitplanes, and returns the packed payload along
// with the vertical interlace step that produced it. width must be a multiple
// of 8.
//
// Each vertical step is tried with a fresh work buffer. The per-line
// horizontal search uses up to workers goroutines; the result does not
// depend on how many.
func Compress(planar []byte, width, height, workers int) ([]byte, int) {
	stride := width >> 1

	vertical := interlace.Table(height, verticalSteps...)
	horizontal := horizontalOrders(stride)

	var best []byte
	var bestStep int
	for _, step := range verticalSteps {
		work := verticalTransform(planar, stride, height, vertical[step])
		horizontalTransform(work, stride, height, workers, horizontal)

		out := make([]byte, packedBound(len(work)))
		offset := packFlags(work, out)

		if best == nil || len(out)-offset < len(best) {
			best, bestStep = out[offset:], step
		}
	}

	return best, bestStep
}
