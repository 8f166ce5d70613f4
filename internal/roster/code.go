package roster

import "crypto/rand"

// codeAlphabet omits 0/O/1/I so codes survive manual entry from a wedge
// scanner display or a printed card.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the fixed length of a student credential code.
const CodeLength = 8

// NewCode returns a random 8-character student code.
func NewCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
