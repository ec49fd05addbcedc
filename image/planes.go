package image

// splitPlanes converts width*height 4-bit pixel indices into planar form.
// Each scanline becomes width/2 bytes: four width/8 byte slices, one per
// plane, each byte holding 8 pixels with the leftmost in the top bit.
//
// width must be a multiple of 8. Bits above the low nibble are ignored.
func splitPlanes(pix []byte, width, height int) []byte {
	stride := width >> 1
	planeWidth := width >> 3

	out := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		src := pix[y*width : (y+1)*width]
		dst := out[y*stride : (y+1)*stride]
		for x := 0; x < planeWidth; x++ {
			var octet [planes]byte
			for _, p := range src[x<<3 : x<<3+8] {
				for i := range octet {
					octet[i] = octet[i]<<1 | p>>uint(i)&1
				}
			}
			for i, b := range octet {
				dst[i*planeWidth+x] = b
			}
		}
	}
	return out
}
