package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const referencePrefix = "MID"

const referenceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewReference generates an order reference of the form
// MID-<unix millis>-<5 random base36 chars>, uppercased. The timestamp plus
// random suffix makes collisions across rapid calls negligible; a unique
// index on the orders collection backs this up.
func NewReference() string {
	return strings.ToUpper(fmt.Sprintf("%s-%d-%s", referencePrefix, time.Now().UnixMilli(), randomSuffix(5)))
}

// NewTrackingNumber generates a synthetic tracking number attached when an
// order enters the shipped state.
func NewTrackingNumber() string {
	return strings.ToUpper(fmt.Sprintf("TRK-%d-%s", time.Now().UnixMilli(), randomSuffix(6)))
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(referenceAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand is effectively infallible on supported platforms;
			// fall back to a time-derived character rather than panic.
			b[i] = referenceAlphabet[time.Now().UnixNano()%int64(len(referenceAlphabet))]
			continue
		}
		b[i] = referenceAlphabet[idx.Int64()]
	}
	return string(b)
}
