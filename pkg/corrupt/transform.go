package corrupt

// Bit-region transforms. Each takes explicit offsets and lengths in bits,
// clamps them to the current buffer and never fails: a part that lies
// entirely outside the buffer is left alone.

// Fill sets n bits starting at start to v.
func (b *BitBuffer) Fill(start, n uint64, v bool) {
	n = b.clampPart(start, n)
	for i := start; i < start+n; i++ {
		b.set(i, v)
	}
}

// Invert flips n bits starting at start.
func (b *BitBuffer) Invert(start, n uint64) {
	n = b.clampPart(start, n)
	for i := start; i < start+n; i++ {
		b.buf[i>>3] ^= 0x80 >> (i & 7)
	}
}

// ReverseBits reverses the order of n bits starting at start.
func (b *BitBuffer) ReverseBits(start, n uint64) {
	n = b.clampPart(start, n)
	if n < 2 {
		return
	}

	for i, j := start, start+n-1; i < j; i, j = i+1, j-1 {
		vi, vj := b.get(i), b.get(j)
		b.set(i, vj)
		b.set(j, vi)
	}
}

// SwapParts exchanges n bits at a with n bits at c, position by position in
// ascending order. Overlapping parts are swapped pairwise in that order.
func (b *BitBuffer) SwapParts(a, c, n uint64) {
	n = min(b.clampPart(a, n), b.clampPart(c, n))
	for i := range n {
		va, vc := b.get(a+i), b.get(c+i)
		b.set(a+i, vc)
		b.set(c+i, va)
	}
}

// XorPart XORs n bits at src into the n bits at dst. The source bits are
// read before any write, so src is unchanged unless the parts overlap.
func (b *BitBuffer) XorPart(dst, src, n uint64) {
	n = min(b.clampPart(dst, n), b.clampPart(src, n))
	if n == 0 {
		return
	}

	srcBits := make([]bool, n)
	for i := range n {
		srcBits[i] = b.get(src + i)
	}

	for i, v := range srcBits {
		if v {
			pos := dst + uint64(i)
			b.buf[pos>>3] ^= 0x80 >> (pos & 7)
		}
	}
}

// Tile repeats the n bits at src over the span bits that follow them,
// truncating the last repetition. Returns the number of bits written.
func (b *BitBuffer) Tile(src, n, span uint64) uint64 {
	n = b.clampPart(src, n)
	if n == 0 {
		return 0
	}

	span = b.clampPart(src+n, span)
	for i := range span {
		b.set(src+n+i, b.get(src+i%n))
	}

	return span
}

// AddNoise flips each of n bits at start when draw() < density.
// Returns the number of bits flipped.
func (b *BitBuffer) AddNoise(start, n uint64, density float64, draw func() float64) uint64 {
	n = b.clampPart(start, n)

	var flipped uint64

	for i := start; i < start+n; i++ {
		if draw() < density {
			b.buf[i>>3] ^= 0x80 >> (i & 7)
			flipped++
		}
	}

	return flipped
}

// RotateRight rotates n bits at start right by k: the trailing k bits move
// to the front. k is taken modulo n.
func (b *BitBuffer) RotateRight(start, n, k uint64) {
	n = b.clampPart(start, n)
	if n < 2 {
		return
	}

	k %= n
	if k == 0 {
		return
	}

	b.ReverseBits(start, n)
	b.ReverseBits(start, k)
	b.ReverseBits(start+k, n-k)
}

// RotateLeft rotates n bits at start left by k: the leading k bits move to
// the end. k is taken modulo n.
func (b *BitBuffer) RotateLeft(start, n, k uint64) {
	n = b.clampPart(start, n)
	if n < 2 {
		return
	}

	b.RotateRight(start, n, n-k%n)
}

// clampPart returns n limited to the bits that exist from start on.
func (b *BitBuffer) clampPart(start, n uint64) uint64 {
	if start >= b.n {
		return 0
	}

	return min(n, b.n-start)
}
