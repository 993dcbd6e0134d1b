package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{in: "alice"},
		{in: "alice.smith@example.org"},
		{in: "room_1-b"},
		{in: "", wantErr: ErrUsernameRequired},
		{in: ".hidden", wantErr: ErrInvalidUsername},
		{in: "a b", wantErr: ErrInvalidUsername},
		{in: "a/b", wantErr: ErrInvalidUsername},
		{in: "émile", wantErr: ErrInvalidUsername},
		{in: strings.Repeat("a", 64)},
		{in: strings.Repeat("a", 65), wantErr: ErrInvalidUsername},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidateUsername(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCollectionName(t *testing.T) {
	for _, ok := range []string{"calendar", "Home Calendar", "a.b"} {
		assert.NoError(t, ValidateCollectionName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, strings.Repeat("x", 65)} {
		assert.ErrorIs(t, ValidateCollectionName(bad), ErrInvalidCollectionName, bad)
	}
}
