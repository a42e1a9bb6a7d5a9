package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"property collision", "PROPERTY_EXISTS", ErrCodeAlreadyExists},
		{"value collision", "VALUE_EXISTS", ErrCodeAlreadyExists},
		{"malformed payload", "INVALID_PAYLOAD", ErrCodeInvalidInput},
		{"self merge", "INVALID_MERGE", ErrCodeInvalidInput},
		{"cross product", "CROSS_PRODUCT", ErrCodeCrossProduct},
		{"already normalized", ErrCodeRateLimited, ErrCodeRateLimited},
		{"unknown passes through", "SOMETHING_ELSE", "SOMETHING_ELSE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.code))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyExists))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeCrossProduct))
	assert.Equal(t, http.StatusTooManyRequests, GetHTTPStatus(ErrCodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("NOT_A_CODE"))
}
