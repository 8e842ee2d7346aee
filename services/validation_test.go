package services

import (
	"strings"
	"testing"

	"mesto-restful/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantMsg string
	}{
		{"valid card", &CreateCardInput{Name: "Байкал", Link: "https://example.com/b.jpg"}, ""},
		{"missing link", &CreateCardInput{Name: "Baikal"}, "link is required"},
		{"bad link", &CreateCardInput{Name: "Baikal", Link: "baikal.jpg"}, "link must be a valid URL"},
		{"short name", &CreateCardInput{Name: "B", Link: "https://example.com/b.jpg"}, "name must be at least 2 characters"},
		{"long about", &UpdateProfileInput{Name: "Marie", About: strings.Repeat("a", 31)}, "about must be at most 30 characters"},
		{"bad email", &SignInInput{Email: "nobody", Password: "x"}, "email must be a valid email"},
		{"signup optional fields", &SignUpInput{Email: "a@b.co", Password: "x"}, ""},
		{"signup long password", &SignUpInput{Email: "a@b.co", Password: strings.Repeat("p", 73)}, "password must be at most 72 bytes"},
		// bcrypt reads bytes, so 72 two-byte runes are over the limit
		{"signup multibyte password over 72 bytes", &SignUpInput{Email: "a@b.co", Password: strings.Repeat("я", 72)}, "password must be at most 72 bytes"},
		{"signup multibyte password at 72 bytes", &SignUpInput{Email: "a@b.co", Password: strings.Repeat("я", 36)}, ""},
		// length counts characters, not bytes
		{"cyrillic name at limit", &UpdateProfileInput{Name: strings.Repeat("ж", 30), About: "ok"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
			assert.Contains(t, apperr.PublicMessage(err), tt.wantMsg)
		})
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID(id.String(), "card")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "42", "not-a-uuid", id.String() + "x"} {
		_, err := ParseID(raw, "card")
		require.Error(t, err, raw)
		assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
		assert.Equal(t, "Invalid card id", apperr.PublicMessage(err))
	}
}
