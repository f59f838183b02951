package helper

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	upperDigits = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits      = "0123456789"
)

// RandomCode returns n chars from A-Z0-9. Used for generated school/subject
// codes; uniqueness is enforced by the DB index, not here.
func RandomCode(n int) string {
	return randomFrom(upperDigits, n)
}

// RandomDigits returns n numeric chars (employee ids).
func RandomDigits(n int) string {
	return randomFrom(digits, n)
}

// YearCode builds ids like STU2026AB12 / TCH2026X9K2 / EMP20264417.
func YearCode(prefix, alphabetTail string) string {
	return fmt.Sprintf("%s%d%s", prefix, time.Now().Year(), alphabetTail)
}

func randomFrom(alphabet string, n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = alphabet[0]
			continue
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b)
}
