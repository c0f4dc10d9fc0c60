package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePickupCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GeneratePickupCode()
		require.Len(t, code, PickupCodeLength)
		for _, c := range code {
			require.True(t, strings.ContainsRune(pickupAlphabet, c), "unexpected character %q", c)
		}
		// The alphabet drops lookalikes entirely
		require.NotContains(t, code, "O")
		require.NotContains(t, code, "0")
		require.NotContains(t, code, "I")
		require.NotContains(t, code, "1")
	}
}
