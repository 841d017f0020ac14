package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Username string `json:"username" binding:"notblank,max=10"`
	Password string `json:"password" binding:"required"`
}

func TestSetupValidator(t *testing.T) {
	require.NoError(t, SetupValidator())

	tests := []struct {
		name    string
		form    loginForm
		wantMsg string
	}{
		{"valid", loginForm{Username: "alice", Password: "pw"}, ""},
		{"blank username", loginForm{Username: "   ", Password: "pw"}, "username: This field is required"},
		{"long username", loginForm{Username: "abcdefghijk", Password: "pw"}, "username: Must be at most 10 characters"},
		{"missing password", loginForm{Username: "alice"}, "password: This field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(tt.form)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, ValidationMessage(err))
		})
	}
}

func TestValidationMessage_NotValidationError(t *testing.T) {
	assert.Empty(t, ValidationMessage(errors.New("boom")))
	assert.Empty(t, ValidationMessage(nil))
}
