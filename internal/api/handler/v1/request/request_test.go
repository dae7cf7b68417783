package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr error
		invalid bool
	}{
		{
			name: "valid",
			req:  SignupRequest{Email: "ann@example.com", Password: "Secret123!", ConfirmPassword: "Secret123!", Name: "ann"},
		},
		{
			name:    "bad email",
			req:     SignupRequest{Email: "ann", Password: "Secret123!", ConfirmPassword: "Secret123!", Name: "ann"},
			invalid: true,
		},
		{
			name:    "no symbol",
			req:     SignupRequest{Email: "ann@example.com", Password: "Secret123", ConfirmPassword: "Secret123", Name: "ann"},
			wantErr: errInvalidPassword,
		},
		{
			name:    "too short",
			req:     SignupRequest{Email: "ann@example.com", Password: "Se1!", ConfirmPassword: "Se1!", Name: "ann"},
			wantErr: errInvalidPassword,
		},
		{
			name:    "mismatch",
			req:     SignupRequest{Email: "ann@example.com", Password: "Secret123!", ConfirmPassword: "Secret123?", Name: "ann"},
			wantErr: errConfirmPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.invalid:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestCaptureRequestValidate(t *testing.T) {
	valid := CaptureRequest{PointName: "Alpha", EvidenceURL: "https://example.com/proof.png"}
	assert.NoError(t, valid.Validate())

	noPoint := valid
	noPoint.PointName = ""
	assert.Error(t, noPoint.Validate())

	badURL := valid
	badURL.EvidenceURL = "not a url"
	assert.Error(t, badURL.Validate())
}

func TestTreasuryRequestValidate(t *testing.T) {
	assert.NoError(t, (&TreasuryRequest{Amount: 5, IsCredit: true}).Validate())
	assert.Error(t, (&TreasuryRequest{Amount: 0}).Validate())
	assert.Error(t, (&TreasuryRequest{Amount: -3}).Validate())
}
