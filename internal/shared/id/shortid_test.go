package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscriptionID(t *testing.T) {
	sid, err := NewSubscriptionID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sid, "sub_"))
	assert.Len(t, sid, len("sub_")+DefaultLength)
	assert.NoError(t, ValidatePrefix(sid, PrefixSubscription))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		s, err := Generate(DefaultLength)
		require.NoError(t, err)
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}
}

func TestValidatePrefix(t *testing.T) {
	assert.Error(t, ValidatePrefix("sub", PrefixSubscription))
	assert.Error(t, ValidatePrefix("sub_", PrefixSubscription))
	assert.Error(t, ValidatePrefix("inv_abc", PrefixSubscription))
	assert.Error(t, ValidatePrefix("sub_ab-c", PrefixSubscription))
	assert.NoError(t, ValidatePrefix("sub_abc", PrefixSubscription))
}
