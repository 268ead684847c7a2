package signing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFeedTokenSignerGenerateAndParse(t *testing.T) {
	signer := NewFeedTokenSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("instructor-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	scope, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "instructor-1", scope)
}

func TestFeedTokenSignerExpired(t *testing.T) {
	signer := NewFeedTokenSigner("secret", time.Hour)
	token, _, err := signer.Generate(FeedScopeAll)
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = signer.Parse(token)
	require.Error(t, err)
}

func TestFeedTokenSignerRejectsTamperedScope(t *testing.T) {
	signer := NewFeedTokenSigner("secret", time.Hour)
	token, _, err := signer.Generate("instructor-1")
	require.NoError(t, err)

	other, _, err := signer.Generate("instructor-2")
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	forged := strings.Join([]string{otherParts[0], parts[1], parts[2]}, ".")

	_, err = signer.Parse(forged)
	require.Error(t, err)
}

func TestFeedTokenSignerRequiresSecret(t *testing.T) {
	signer := NewFeedTokenSigner("", time.Hour)
	_, _, err := signer.Generate("instructor-1")
	require.Error(t, err)
}
