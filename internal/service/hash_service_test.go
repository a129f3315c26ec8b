package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HashService_HashAndVerify(t *testing.T) {
	svc := NewArgon2HashService()

	encoded, err := svc.Hash("a1b2c3d4e5f6")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := svc.Verify("a1b2c3d4e5f6", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify("wrong-token", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArgon2HashService_SaltsDiffer(t *testing.T) {
	svc := NewArgon2HashService()

	first, err := svc.Hash("same-token")
	require.NoError(t, err)
	second, err := svc.Hash("same-token")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	ok, err := svc.Verify("same-token", first)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.Verify("same-token", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestArgon2HashService_RejectsMalformed(t *testing.T) {
	svc := NewArgon2HashService()

	cases := []string{
		"",
		"plain-hash",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		_, err := svc.Verify("token", encoded)
		assert.Error(t, err, "encoded=%q", encoded)
	}
}
