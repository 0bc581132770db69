package storage

import (
	"testing"

	"routeshare/internal/pkg/errs"
)

func TestValidateFileSize(t *testing.T) {
	if customErr := ValidateFileSize(1024); customErr != nil {
		t.Errorf("ValidateFileSize(1024) = %v, want nil", customErr)
	}
	if customErr := ValidateFileSize(MaxPhotoSize); customErr != nil {
		t.Errorf("ValidateFileSize at the limit = %v, want nil", customErr)
	}

	if customErr := ValidateFileSize(0); customErr == nil || customErr.Code != errs.ErrInvalidParams {
		t.Errorf("ValidateFileSize(0) = %v, want code %d", customErr, errs.ErrInvalidParams)
	}
	if customErr := ValidateFileSize(-1); customErr == nil {
		t.Error("ValidateFileSize(-1) accepted a negative size")
	}
	if customErr := ValidateFileSize(MaxPhotoSize + 1); customErr == nil || customErr.Code != errs.ErrFileSizeTooLarge {
		t.Errorf("ValidateFileSize over the limit = %v, want code %d", customErr, errs.ErrFileSizeTooLarge)
	}
}

func TestValidateFileType(t *testing.T) {
	valid := []struct{ name, mime string }{
		{"avatar.jpg", "image/jpeg"},
		{"avatar.jpeg", "image/jpeg"},
		{"photo.PNG", "image/png"},
		{"car.webp", "IMAGE/WEBP"},
	}
	for _, tc := range valid {
		if customErr := ValidateFileType(tc.name, tc.mime); customErr != nil {
			t.Errorf("ValidateFileType(%q, %q) = %v, want nil", tc.name, tc.mime, customErr)
		}
	}

	invalid := []struct{ name, mime string }{
		{"avatar.gif", "image/gif"},
		{"avatar", "image/jpeg"},
		{"avatar.exe", "image/jpeg"},
		{"avatar.png", "image/jpeg"},
		{"avatar.jpg", "application/octet-stream"},
	}
	for _, tc := range invalid {
		if customErr := ValidateFileType(tc.name, tc.mime); customErr == nil {
			t.Errorf("ValidateFileType(%q, %q) accepted an invalid combination", tc.name, tc.mime)
		}
	}
}
