package actiontoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/actiontoken"
)

const testSecret = "test-secret-key-for-hmac-signing"

var issued = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSigner() *actiontoken.Signer {
	return actiontoken.NewSigner(testSecret, time.Hour)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newSigner()
	token := s.Sign("duplicate_as_duplicate_12", "42", issued)

	require.NoError(t, s.Verify(token, "duplicate_as_duplicate_12", "42", issued.Add(10*time.Minute)))
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	s := newSigner()
	token := s.Sign("duplicate_as_transform_12_page", "42", issued)

	tests := []struct {
		name    string
		token   string
		action  string
		subject string
		now     time.Time
		want    error
	}{
		{name: "other action", token: token, action: "duplicate_as_transform_12_post", subject: "42", now: issued, want: actiontoken.ErrInvalid},
		{name: "other subject", token: token, action: "duplicate_as_transform_12_page", subject: "43", now: issued, want: actiontoken.ErrInvalid},
		{name: "expired", token: token, action: "duplicate_as_transform_12_page", subject: "42", now: issued.Add(2 * time.Hour), want: actiontoken.ErrExpired},
		{name: "from the future", token: token, action: "duplicate_as_transform_12_page", subject: "42", now: issued.Add(-time.Hour), want: actiontoken.ErrExpired},
		{name: "no separator", token: "abc", action: "x", subject: "42", now: issued, want: actiontoken.ErrMalformed},
		{name: "bad timestamp", token: "x." + token[len(token)-actiontoken.SignatureLength:], action: "x", subject: "42", now: issued, want: actiontoken.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, s.Verify(tt.token, tt.action, tt.subject, tt.now), tt.want)
		})
	}
}

func TestVerify_DifferentSecret(t *testing.T) {
	t.Parallel()

	token := newSigner().Sign("a", "1", issued)
	other := actiontoken.NewSigner("another-secret", time.Hour)
	assert.ErrorIs(t, other.Verify(token, "a", "1", issued), actiontoken.ErrInvalid)
}
