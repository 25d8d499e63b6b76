// Package telegram verifies the signed login payload Telegram hands to the
// mini-app. Verification is a pure function of the payload, the bot token
// and the current time, so it is safe to call from any number of goroutines.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/questbay/questbay/internal/domain"
)

// MaxAge is how long a signed payload stays valid. Telegram signs auth_date
// in unix seconds; anything this old or older is rejected.
const MaxAge = 24 * time.Hour

// Identity is a verified Telegram login.
type Identity struct {
	TelegramID int64
	FirstName  string
	Username   string
	PhotoURL   string
	Fields     map[string]string
}

// DisplayName prefers the username and falls back to the first name, which
// is the only name field Telegram guarantees.
func (id Identity) DisplayName() string {
	if id.Username != "" {
		return id.Username
	}
	return id.FirstName
}

// ParsePayload decodes the JSON auth blob from the X-Telegram-Data header
// into the flat field map Verify expects. Numbers keep their exact wire
// representation: the signature is computed over the original text, so
// re-rendering 12345 as 12345.0 would break every signature.
func ParsePayload(raw []byte) (map[string]string, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, domain.Malformed("invalid auth payload")
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case string:
			fields[k] = t
		case json.Number:
			fields[k] = t.String()
		case bool:
			fields[k] = strconv.FormatBool(t)
		default:
			return nil, domain.Malformed("auth payload values must be scalar")
		}
	}
	return fields, nil
}

// Verify checks the HMAC signature and freshness of a login payload and
// returns the identity it attests to.
//
// The signing scheme is Telegram's: drop the hash field, sort the remaining
// fields by key, join them as "key=value" lines, and HMAC-SHA256 the result
// with SHA-256(botToken) as the key.
func Verify(fields map[string]string, botToken string, now time.Time) (Identity, error) {
	received, ok := fields["hash"]
	if !ok || received == "" {
		return Identity{}, domain.Malformed("auth payload missing hash")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(b.String()))
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(received)) {
		return Identity{}, domain.Unauthenticated("invalid auth signature")
	}

	authDate, ok := fields["auth_date"]
	if !ok {
		return Identity{}, domain.Malformed("auth payload missing auth_date")
	}
	issued, err := strconv.ParseInt(authDate, 10, 64)
	if err != nil {
		return Identity{}, domain.Malformed("auth_date is not a unix timestamp")
	}
	if now.Unix()-issued >= int64(MaxAge/time.Second) {
		return Identity{}, domain.Unauthenticated("auth payload expired")
	}

	id := Identity{
		FirstName: fields["first_name"],
		Username:  fields["username"],
		PhotoURL:  fields["photo_url"],
		Fields:    fields,
	}
	if id.TelegramID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return Identity{}, domain.Malformed("auth payload missing telegram id")
	}
	return id, nil
}

// Sign computes the hash Telegram would attach to fields. It exists for
// tests and local tooling; the server never signs payloads.
func Sign(fields map[string]string, botToken string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + fields[k]
	}

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
