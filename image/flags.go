package image

// packedBound returns the largest number of bytes packFlags can produce for
// n input bytes: every byte a literal, plus one flag B per 8 bytes and one
// flag A per 64.
func packedBound(n int) int {
	bound := n + (n+7)>>3 + (n+63)>>6
	if legacy := (n*8 + 6) / 7; legacy > bound {
		return legacy
	}
	return bound
}

// packFlags packs src into the end of dst and returns the offset in dst where
// the output starts. dst must hold at least packedBound(len(src)) bytes.
//
// The input is read from the last byte to the first so each flag byte is
// complete by the time it has to be written in front of the bytes it
// describes. The counters start part way through a group when len(src) is
// not a multiple of 8 or 64, which is the same as padding the end with zero
// bytes.
func packFlags(src, dst []byte) int {
	var flagA, flagB byte

	bitsLeftB := len(src) & 7
	if bitsLeftB == 0 {
		bitsLeftB = 8
	}
	bitsLeftA := (len(src) + 7) >> 3 & 7
	if bitsLeftA == 0 {
		bitsLeftA = 8
	}

	w := len(dst)
	for r := len(src) - 1; r >= 0; r-- {
		flagB >>= 1
		if b := src[r]; b != 0 {
			w--
			dst[w] = b
			flagB |= 0x80
		}

		if bitsLeftB--; bitsLeftB > 0 {
			continue
		}
		bitsLeftB = 8

		flagA >>= 1
		if flagB != 0 {
			w--
			dst[w] = flagB
			flagA |= 0x80
			flagB = 0
		}

		if bitsLeftA--; bitsLeftA > 0 {
			continue
		}
		bitsLeftA = 8

		// Written even when zero
		w--
		dst[w] = flagA
		flagA = 0
	}

	return w
}
