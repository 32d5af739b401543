package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T, secret string) *Codec {
	t.Helper()
	c, err := NewCodec(Config{
		Secret:     []byte(secret),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return c
}

func TestNewCodec_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	_, err := NewCodec(Config{AccessTTL: time.Minute, RefreshTTL: time.Hour})
	require.Error(t, err)

	_, err = NewCodec(Config{Secret: []byte("s"), AccessTTL: 0, RefreshTTL: time.Hour})
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "test-jwt-secret")
	now := time.Unix(1_700_000_000, 0).UTC()

	tests := []struct {
		name string
		kind Kind
		ttl  time.Duration
	}{
		{name: "access", kind: KindAccess, ttl: 15 * time.Minute},
		{name: "refresh", kind: KindRefresh, ttl: 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token, err := c.Encode(Identity{Subject: "ann@example.com", Role: "USER"}, tt.kind, now)
			require.NoError(t, err)

			claims, err := c.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, "ann@example.com", claims.Subject)
			assert.Equal(t, "USER", claims.Role)
			assert.Equal(t, tt.kind, claims.Kind)
			assert.True(t, claims.Expiry().Equal(now.Add(tt.ttl)))
			assert.True(t, claims.IssuedAt.Time.Equal(now))
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestCodec_SameSecondTokensDiffer(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "test-jwt-secret")
	now := time.Now()
	id := Identity{Subject: "ann@example.com"}

	a, err := c.Encode(id, KindAccess, now)
	require.NoError(t, err)
	b, err := c.Encode(id, KindAccess, now)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCodec_Decode_DoesNotCheckClock(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "test-jwt-secret")
	issued := time.Now().Add(-30 * 24 * time.Hour)

	token, err := c.Encode(Identity{Subject: "old@example.com"}, KindRefresh, issued)
	require.NoError(t, err)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "old@example.com", claims.Subject)
	assert.True(t, c.IsExpired(token, time.Now()))
}

func TestCodec_Decode_Invalid(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "test-jwt-secret")
	other := newTestCodec(t, "another-secret")

	foreign, err := other.Encode(Identity{Subject: "ann@example.com"}, KindAccess, time.Now())
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Kind:             KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ann@example.com", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noKind, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ann@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-jwt-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-valid-jwt"},
		{name: "empty", token: ""},
		{name: "other secret", token: foreign},
		{name: "alg none", token: unsigned},
		{name: "missing kind", token: noKind},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := c.Decode(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, ErrInvalidToken))
			assert.True(t, c.IsExpired(tt.token, time.Now()))
		})
	}
}

func TestCodec_Validate(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t, "test-jwt-secret")
	now := time.Now()
	id := Identity{Subject: "ann@example.com"}

	access, err := c.Encode(id, KindAccess, now)
	require.NoError(t, err)
	refresh, err := c.Encode(id, KindRefresh, now)
	require.NoError(t, err)

	claims, err := c.Validate(access, KindAccess, now)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", claims.Identity().Subject)

	_, err = c.Validate(refresh, KindAccess, now)
	assert.ErrorIs(t, err, ErrWrongKind)

	_, err = c.Validate(access, KindAccess, now.Add(16*time.Minute))
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestFromBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{header: "", ok: false},
		{header: "Basic dXNlcjpwYXNz", ok: false},
		{header: "Bearer ", ok: false},
		{header: "bearer abc", ok: false},
	}

	for _, tt := range tests {
		token, ok := FromBearer(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
