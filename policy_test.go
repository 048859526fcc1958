package appstorage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCollisionPolicy(t *testing.T) {
	for _, policy := range []CollisionPolicy{FailIfExists, ReplaceExisting, OpenIfExists, GenerateUniqueName} {
		parsed, err := ParseCollisionPolicy(policy.String())
		require.NoError(t, err)
		require.Equal(t, policy, parsed)
	}

	_, err := ParseCollisionPolicy("overwrite")
	require.Error(t, err)
}
