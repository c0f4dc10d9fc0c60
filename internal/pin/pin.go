// Package pin derives memorable check-in PINs from birth dates.
//
// The first candidate for a person born 2013-11-17 is "111713" (MMDDYY).
// When that collides within the organization, trailing characters are
// replaced with an incrementing counter: "111711", "111712", ... "111719",
// then two-digit suffixes ("1117" + "10" = "111710") and so on. Uniqueness
// itself is enforced by the storage layer; this package only produces the
// candidate sequence.
package pin

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// Length of every PIN
const Length = 6

// MaxDerived is the last attempt that still derives from the birth date.
// Past it (or with no birth date at all) candidates are uniformly random,
// which always finds a free value while fewer than 1,000,000 PINs exist.
const MaxDerived = 99999

// MaxPerOrg is the size of the PIN space for one organization
const MaxPerOrg = 1000000

// Derive returns the base candidate for a birth date: zero-padded month and
// day plus the two-digit year.
func Derive(birth time.Time) string {
	return birth.Format("010206")
}

// Candidate returns the PIN candidate for the given retry attempt. Attempt 0
// is the derived base; later attempts replace as many trailing characters as
// the decimal attempt number needs. A nil birth date always yields a random
// candidate.
func Candidate(birth *time.Time, attempt int) string {
	if birth == nil || attempt > MaxDerived {
		return Random()
	}
	base := Derive(*birth)
	if attempt == 0 {
		return base
	}
	suffix := strconv.Itoa(attempt)
	return base[:Length-len(suffix)] + suffix
}

// Random returns a uniformly random 6-digit numeric PIN
func Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxPerOrg))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken;
		// fall back to the time so check-in keeps working.
		n = big.NewInt(time.Now().UnixNano() % MaxPerOrg)
	}
	s := strconv.FormatInt(n.Int64(), 10)
	for len(s) < Length {
		s = "0" + s
	}
	return s
}
