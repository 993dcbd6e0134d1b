// Package password produces and checks password strings in the formats
// DAViCal stores in usr.password.
//
//	**secret                       plain text
//	*salt*{SSHA}base64(sha1+salt)  salted SHA-1, written by Hash
//	*salt*md5hex                   salted MD5, older installations
package password

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

const saltLen = 9

var (
	ErrEmpty       = errors.New("password is empty")
	ErrUnsupported = errors.New("unsupported password format")
)

var randRead = rand.Read

// Hash returns a salted SHA-1 password string.
func Hash(pw string) (string, error) {
	if pw == "" {
		return "", ErrEmpty
	}
	salt, err := newSalt()
	if err != nil {
		return "", err
	}
	return hashWithSalt(pw, salt), nil
}

// Plain returns the clear-text form "**pw".
func Plain(pw string) (string, error) {
	if pw == "" {
		return "", ErrEmpty
	}
	return "**" + pw, nil
}

// Verify reports whether pw matches the stored password string.
func Verify(pw, stored string) (bool, error) {
	switch {
	case strings.HasPrefix(stored, "**"):
		return equal(stored[2:], pw), nil
	case strings.HasPrefix(stored, "*"):
		salt, rest, ok := strings.Cut(stored[1:], "*")
		if !ok {
			return false, ErrUnsupported
		}
		if strings.HasPrefix(rest, "{SSHA}") {
			return equal(hashWithSalt(pw, salt), stored), nil
		}
		sum := md5.Sum([]byte(salt + pw))
		return equal(hex.EncodeToString(sum[:]), strings.ToLower(rest)), nil
	default:
		return false, ErrUnsupported
	}
}

func hashWithSalt(pw, salt string) string {
	sum := sha1.Sum([]byte(pw + salt))
	raw := append(sum[:], salt...)
	return "*" + salt + "*{SSHA}" + base64.StdEncoding.EncodeToString(raw)
}

func newSalt() (string, error) {
	b := make([]byte, saltLen)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	// '*' separates salt from hash; base64 never emits it.
	return base64.RawURLEncoding.EncodeToString(b)[:saltLen], nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
