package telegram

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questbay/questbay/internal/domain"
)

const testToken = "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"

func signedPayload(t *testing.T, now time.Time, age time.Duration) map[string]string {
	t.Helper()
	fields := map[string]string{
		"id":         "99281932",
		"first_name": "Andrei",
		"username":   "andrei_sells",
		"photo_url":  "https://t.me/i/userpic/320/andrei.jpg",
		"auth_date":  strconv.FormatInt(now.Add(-age).Unix(), 10),
	}
	fields["hash"] = Sign(fields, testToken)
	return fields
}

func TestVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("accepts a correctly signed payload", func(t *testing.T) {
		fields := signedPayload(t, now, time.Hour)

		id, err := Verify(fields, testToken, now)
		require.NoError(t, err)
		assert.Equal(t, int64(99281932), id.TelegramID)
		assert.Equal(t, "Andrei", id.FirstName)
		assert.Equal(t, "andrei_sells", id.DisplayName())
	})

	t.Run("rejects any mutated field", func(t *testing.T) {
		for _, field := range []string{"id", "first_name", "username", "auth_date"} {
			fields := signedPayload(t, now, time.Hour)
			fields[field] += "x"

			_, err := Verify(fields, testToken, now)
			require.Error(t, err, "mutated %s should fail", field)
			assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
		}
	})

	t.Run("rejects a payload signed with another token", func(t *testing.T) {
		fields := signedPayload(t, now, time.Hour)
		fields["hash"] = Sign(fields, "999999:other-bot-token")

		_, err := Verify(fields, testToken, now)
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})

	t.Run("missing hash is malformed", func(t *testing.T) {
		fields := signedPayload(t, now, time.Hour)
		delete(fields, "hash")

		_, err := Verify(fields, testToken, now)
		assert.Equal(t, domain.KindMalformed, domain.KindOf(err))
	})

	t.Run("expires at exactly 86400 seconds", func(t *testing.T) {
		fields := signedPayload(t, now, 86400*time.Second)

		_, err := Verify(fields, testToken, now)
		require.Error(t, err)
		assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))
	})

	t.Run("still valid at 86399 seconds", func(t *testing.T) {
		fields := signedPayload(t, now, 86399*time.Second)

		_, err := Verify(fields, testToken, now)
		assert.NoError(t, err)
	})

	t.Run("missing auth_date is malformed", func(t *testing.T) {
		fields := map[string]string{
			"id":         "99281932",
			"first_name": "Andrei",
		}
		fields["hash"] = Sign(fields, testToken)

		_, err := Verify(fields, testToken, now)
		assert.Equal(t, domain.KindMalformed, domain.KindOf(err))
	})

	t.Run("non-numeric telegram id is malformed", func(t *testing.T) {
		fields := map[string]string{
			"id":         "not-a-number",
			"first_name": "Andrei",
			"auth_date":  strconv.FormatInt(now.Unix(), 10),
		}
		fields["hash"] = Sign(fields, testToken)

		_, err := Verify(fields, testToken, now)
		assert.Equal(t, domain.KindMalformed, domain.KindOf(err))
	})
}

func TestParsePayload(t *testing.T) {
	t.Run("keeps numeric wire representation", func(t *testing.T) {
		fields, err := ParsePayload([]byte(`{"id":99281932,"first_name":"Andrei","auth_date":1748779200,"hash":"abc"}`))
		require.NoError(t, err)
		assert.Equal(t, "99281932", fields["id"])
		assert.Equal(t, "1748779200", fields["auth_date"])
	})

	t.Run("round-trips through Sign and Verify", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		raw := []byte(`{"id":99281932,"first_name":"Andrei","auth_date":` + strconv.FormatInt(now.Add(-time.Minute).Unix(), 10) + `}`)

		fields, err := ParsePayload(raw)
		require.NoError(t, err)
		fields["hash"] = Sign(fields, testToken)

		id, err := Verify(fields, testToken, now)
		require.NoError(t, err)
		assert.Equal(t, int64(99281932), id.TelegramID)
	})

	t.Run("rejects non-JSON", func(t *testing.T) {
		_, err := ParsePayload([]byte("not json"))
		assert.Equal(t, domain.KindMalformed, domain.KindOf(err))
	})

	t.Run("rejects nested values", func(t *testing.T) {
		_, err := ParsePayload([]byte(`{"id":1,"user":{"nested":true}}`))
		assert.Equal(t, domain.KindMalformed, domain.KindOf(err))
	})
}
