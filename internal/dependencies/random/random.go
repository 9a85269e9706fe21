package random

import (
	"crypto/rand"
	"math/big"
)

// Random abstracts randomness so imposter selection and lobby code
// generation can be scripted in tests.
type Random interface {
	// Intn returns an int in [0, n).
	Intn(n int) int

	// String returns a string of length chars drawn from alphabet.
	String(length int, alphabet string) string
}

type CryptoRandom struct{}

func New() *CryptoRandom { return &CryptoRandom{} }

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}
