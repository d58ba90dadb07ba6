package common

// WipeByteArray overwrites b with zeros. Use it on passwords once they are no
// longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
