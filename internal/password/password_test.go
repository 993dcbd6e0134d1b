package password

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sshaPattern = regexp.MustCompile(`^\*[A-Za-z0-9_-]{9}\*\{SSHA\}[A-Za-z0-9+/=]+$`)

func TestHash(t *testing.T) {
	h, err := Hash("s3cret")
	require.NoError(t, err)
	assert.Regexp(t, sshaPattern, h)

	ok, err := Verify("s3cret", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong", h)
	require.NoError(t, err)
	assert.False(t, ok)

	h2, err := Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, h, h2, "salt must differ between calls")
}

func TestHash_Empty(t *testing.T) {
	_, err := Hash("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Plain("")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestHash_RandError(t *testing.T) {
	orig := randRead
	randRead = func(b []byte) (int, error) { return 0, errors.New("no entropy") }
	defer func() { randRead = orig }()

	_, err := Hash("s3cret")
	assert.EqualError(t, err, "no entropy")
}

func TestHashWithSalt_Layout(t *testing.T) {
	// sha1("abc") with pw "ab" and salt "c".
	h := hashWithSalt("ab", "c")
	require.True(t, strings.HasPrefix(h, "*c*{SSHA}"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h, "*c*{SSHA}"))
	require.NoError(t, err)
	require.Len(t, raw, 21)
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(raw[:20]))
	assert.Equal(t, "c", string(raw[20:]))
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		pw      string
		stored  string
		want    bool
		wantErr error
	}{
		{name: "plain match", pw: "secret", stored: "**secret", want: true},
		{name: "plain mismatch", pw: "secret", stored: "**other"},
		// md5("abc")
		{name: "salted md5 match", pw: "bc", stored: "*a*900150983cd24fb0d6963f7d28e17f72", want: true},
		{name: "salted md5 upper hex", pw: "bc", stored: "*a*900150983CD24FB0D6963F7D28E17F72", want: true},
		{name: "salted md5 mismatch", pw: "bd", stored: "*a*900150983cd24fb0d6963f7d28e17f72"},
		{name: "ssha", pw: "ab", stored: hashWithSalt("ab", "c"), want: true},
		{name: "missing separator", pw: "x", stored: "*nosep", wantErr: ErrUnsupported},
		{name: "crypt", pw: "x", stored: "{CRYPT}abc", wantErr: ErrUnsupported},
		{name: "empty stored", pw: "x", stored: "", wantErr: ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Verify(tt.pw, tt.stored)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlain(t *testing.T) {
	p, err := Plain("secret")
	require.NoError(t, err)
	assert.Equal(t, "**secret", p)
}
