package utils

import (
	"crypto/rand"
	"math/big"
)

const billNoAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBillNo returns an uppercase alphanumeric reference code of exactly
// n characters. Uniqueness is not guaranteed here; callers that need unique
// codes must check against the store and retry.
func GenerateBillNo(n int) string {
	code := make([]byte, n)
	max := big.NewInt(int64(len(billNoAlphabet)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			code[i] = billNoAlphabet[i%len(billNoAlphabet)]
			continue
		}
		code[i] = billNoAlphabet[idx.Int64()]
	}
	return string(code)
}
