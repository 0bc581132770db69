package req

import (
	"net/http/httptest"
	"strings"
	"testing"

	"routeshare/internal/pkg/errs"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestBindJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"email":"a@b.com","password":"secret1"}`))
	r.Header.Set("Content-Type", "application/json")

	var dst loginBody
	if customErr := BindJSON(r, &dst); customErr != nil {
		t.Fatalf("BindJSON failed: %v", customErr)
	}
	if dst.Email != "a@b.com" || dst.Password != "secret1" {
		t.Errorf("bound struct = %+v", dst)
	}
}

func TestBindJSONRejectsWrongContentType(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
	r.Header.Set("Content-Type", "text/plain")

	var dst loginBody
	customErr := BindJSON(r, &dst)
	if customErr == nil || customErr.Code != errs.ErrUnsupportedMediaType {
		t.Errorf("got %v, want code %d", customErr, errs.ErrUnsupportedMediaType)
	}
}

func TestBindJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","password":"secret1","admin":true}`))
	r.Header.Set("Content-Type", "application/json")

	var dst loginBody
	customErr := BindJSON(r, &dst)
	if customErr == nil || customErr.Code != errs.ErrInvalidJSONFormat {
		t.Errorf("got %v, want code %d", customErr, errs.ErrInvalidJSONFormat)
	}
}

func TestBindJSONRejectsTrailingContent(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","password":"secret1"} {"more":true}`))
	r.Header.Set("Content-Type", "application/json")

	var dst loginBody
	customErr := BindJSON(r, &dst)
	if customErr == nil || customErr.Code != errs.ErrExtraContentInBody {
		t.Errorf("got %v, want code %d", customErr, errs.ErrExtraContentInBody)
	}
}

func TestBindAndValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"email":"a@b.com","password":"secret1"}`, true},
		{"bad email", `{"email":"not-an-email","password":"secret1"}`, false},
		{"short password", `{"email":"a@b.com","password":"abc"}`, false},
		{"missing fields", `{}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", "application/json")

			var dst loginBody
			customErr := BindAndValidate(r, &dst)
			if tc.ok && customErr != nil {
				t.Errorf("BindAndValidate failed: %v", customErr)
			}
			if !tc.ok {
				if customErr == nil {
					t.Fatal("BindAndValidate accepted an invalid body")
				}
				if customErr.Code != errs.ErrInvalidParams {
					t.Errorf("code = %d, want %d", customErr.Code, errs.ErrInvalidParams)
				}
			}
		})
	}
}
