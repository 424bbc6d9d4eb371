package response

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		data []any
		want Response
	}{
		{
			name: "without data",
			msg:  "Operation successful.",
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
			},
		},
		{
			name: "with data",
			msg:  "Operation successful.",
			data: []any{map[string]any{"id": 1}},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
				Data:    map[string]any{"id": 1},
			},
		},
		{
			name: "with multiple data",
			msg:  "Operation successful.",
			data: []any{
				map[string]any{"id": 1},
				map[string]any{"id": 2},
			},
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
				Data:    map[string]any{"id": 1},
			},
		},
		{
			name: "with nil data",
			msg:  "Operation successful.",
			data: nil,
			want: Response{
				Status:  StatusSuccess,
				Message: "Operation successful.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessResponse(tt.msg, tt.data...)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	type req struct {
		URL         string `json:"url" validate:"required,url"`
		ExpiryHours int    `json:"expiry_hours" validate:"omitempty,gt=0"`
	}

	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	tests := []struct {
		name        string
		req         req
		wantDetails []any
	}{
		{
			name: "missing url",
			req:  req{},
			wantDetails: []any{
				validationError{Field: "url", Message: "The url field is required."},
			},
		},
		{
			name: "invalid url",
			req:  req{URL: "not a url"},
			wantDetails: []any{
				validationError{Field: "url", Message: "The url field must contain a valid url."},
			},
		},
		{
			name: "negative expiry",
			req:  req{URL: "https://example.com", ExpiryHours: -1},
			wantDetails: []any{
				validationError{Field: "expiry_hours", Message: "The expiry_hours field must be greater than 0."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			assert.Error(t, err)

			got := ValidationErrorResponse(err)

			assert.Equal(t, StatusError, got.Status)
			assert.Equal(t, tt.wantDetails, got.Details)
		})
	}
}
