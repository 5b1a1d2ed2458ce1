package main

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenSecret(t *testing.T) {
	out, err := run(t, "", "gen-secret", "--length", "32", "--log-level", "error")
	require.NoError(t, err)

	key, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = run(t, "", "gen-secret", "--length", "8")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "secret1\n", "hash-password", "--log-level", "error")
	require.NoError(t, err)

	digest := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(digest), []byte("secret1")))

	// too short
	_, err = run(t, "", "hash-password", "12345")
	assert.Error(t, err)

	// past bcrypt's byte limit
	_, err = run(t, "", "hash-password", strings.Repeat("x", 73))
	assert.ErrorContains(t, err, "at most 72 bytes")
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("debug", "text"))
	assert.NoError(t, setupLogging("warn", "json"))
	assert.Error(t, setupLogging("loud", "json"))
	assert.Error(t, setupLogging("info", "xml"))
}
