/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"routeshare/internal/app/db"
	"routeshare/internal/app/storage"
	"routeshare/internal/app/user"
	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/req"
	"routeshare/internal/pkg/resp"
)

// UpdateProfileInput is the JSON body for profile updates.
type UpdateProfileInput struct {
	Name      string `json:"name" validate:"required,min=2,max=60"`
	Phone     string `json:"phone" validate:"omitempty,min=6,max=20"`
	AvatarKey string `json:"avatarKey" validate:"omitempty,max=200"`
}

// HandleGetProfile returns the authenticated user's account record.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		u, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "failed to load user profile", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		avatarURL := ""
		if u.AvatarKey != "" {
			avatarURL, err = deps.StorageService.PresignDownload(r.Context(), u.AvatarKey, storage.PresignedURLDuration)
			if err != nil {
				// Profile data is still useful without the avatar link.
				logx.Error(err, "failed to presign avatar download", "user_id", identity.ID)
				avatarURL = ""
			}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user":      u,
			"avatarUrl": avatarURL,
		})
	}
}

// HandleUpdateProfile updates the authenticated user's display name, phone, and avatar.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		// Remove the previous avatar object when it is being replaced.
		previous, err := deps.Users.GetByID(r.Context(), identity.ID)
		if err == nil && previous.AvatarKey != "" && previous.AvatarKey != input.AvatarKey {
			if delErr := deps.StorageService.Delete(r.Context(), previous.AvatarKey); delErr != nil {
				logx.Warn("failed to delete replaced avatar", "user_id", identity.ID, "key", previous.AvatarKey)
			}
		}

		u, err := deps.Users.UpdateProfile(r.Context(), user.UpdateProfileParams{
			ID:        identity.ID,
			Name:      input.Name,
			Phone:     input.Phone,
			AvatarKey: input.AvatarKey,
		})
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}

			logx.Error(err, "failed to update user profile", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, u)
	}
}

// HandleUserOnline reports whether the given user currently has a live realtime connection.
func HandleUserOnline(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.GetPayloadFromContext(r) == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		userID := chi.URLParam(r, "id")
		if userID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userId": userID,
			"online": deps.Gateway.Registry().IsOnline(userID),
		})
	}
}

// PresignAvatarInput is the JSON body for requesting an avatar upload URL.
type PresignAvatarInput struct {
	FileName string `json:"fileName" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	FileSize int64  `json:"fileSize" validate:"required,gt=0"`
}

// HandlePresignAvatarURL generates a time-limited, pre-signed URL for uploading
// the authenticated user's avatar image.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateFileType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		fileExt := strings.ToLower(filepath.Ext(input.FileName))
		fileKey := fmt.Sprintf("avatars/%s/%s%s", identity.ID, uuid.New().String(), fileExt)

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			fileKey,
			input.MimeType,
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			logx.Error(err, "failed to presign avatar upload", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": url,
			"fileKey":   fileKey,
		})
	}
}
