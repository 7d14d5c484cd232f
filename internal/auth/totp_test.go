package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTOTPManager_GenerateEnrollment(t *testing.T) {
	tm := NewTOTPManager("PyLink Portal")

	enrollment, err := tm.GenerateEnrollment("admin@pylink.dev")
	require.NoError(t, err)

	assert.NotEmpty(t, enrollment.Secret)
	assert.Contains(t, enrollment.OtpauthURL, "PyLink")
	assert.NotEmpty(t, enrollment.QRCodePNG)
}

func TestTOTPManager_ValidateCode(t *testing.T) {
	tm := NewTOTPManager("PyLink Portal")

	enrollment, err := tm.GenerateEnrollment("admin@pylink.dev")
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)

	assert.True(t, tm.ValidateCode(enrollment.Secret, code))
	assert.False(t, tm.ValidateCode(enrollment.Secret, "000000"))
}
