package services

import (
	"crypto/rand"
	"math/big"
)

// Pickup code alphabet skips 0/O/1/I so parents can read codes off a label
// without ambiguity
const pickupAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// PickupCodeLength is short on purpose: codes only need to be unique among
// the organization's currently open sessions
const PickupCodeLength = 4

// GeneratePickupCode returns a random short code. Uniqueness among open
// sessions is enforced by the storage layer; the caller retries on conflict.
func GeneratePickupCode() string {
	code := make([]byte, PickupCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pickupAlphabet))))
		if err != nil {
			n = big.NewInt(int64(i * 7 % len(pickupAlphabet)))
		}
		code[i] = pickupAlphabet[n.Int64()]
	}
	return string(code)
}
