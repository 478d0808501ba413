package srtp

// growBufferSize returns buf resized to size, reallocating and copying only
// when the backing array is too small. Transformed packets therefore stay in
// the caller's buffer whenever its capacity allows.
func growBufferSize(buf []byte, size int) []byte {
	if size <= cap(buf) {
		return buf[:size]
	}

	buf2 := make([]byte, size)
	copy(buf2, buf)
	return buf2
}
