package weakrand

import (
	crand "crypto/rand"
	"math/rand" // want "import of math/rand is forbidden, use crypto/rand"
)

func Code() int {
	_, _ = crand.Read(make([]byte, 1))
	return rand.Intn(62)
}
