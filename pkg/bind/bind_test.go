package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/till/config"
)

type itemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func TestJSON(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
		field   string
	}{
		{"valid", `{"productId":"1"}`, false, ""},
		{"missing field", `{}`, false, "productId"},
		{"malformed", `{"productId":`, true, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var dest itemRequest
			errs, err := JSON(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader(tc.body)), &dest)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrBody)
				return
			}
			require.NoError(t, err)
			if tc.field != "" {
				assert.Contains(t, errs, tc.field)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestJSON_BodyTooLarge(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	defer config.Set("MAX_BODY_BYTES", "")

	var dest itemRequest
	body := `{"productId":"` + strings.Repeat("x", 64) + `"}`
	_, err := JSON(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader(body)), &dest)
	require.ErrorIs(t, err, ErrBody)
	assert.Contains(t, err.Error(), "larger than 16 bytes")
}
