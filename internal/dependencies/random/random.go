package random

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// Random is the source of room codes and entity ids
type Random interface {
	// Intn returns a uniform int in [0, n); 0 when n <= 0
	Intn(n int) int

	// String draws length characters uniformly from alphabet
	String(length int, alphabet string) string

	// ID returns a process-unique id, "<prefix>_<uuid>" or a bare uuid
	ID(prefix string) string
}

// CryptoRandom draws from crypto/rand and uuid v4
type CryptoRandom struct{}

// New creates a CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic("random: " + err.Error())
	}
	return int(v.Int64())
}

func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(length)
	for range length {
		sb.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return sb.String()
}

func (r *CryptoRandom) ID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
