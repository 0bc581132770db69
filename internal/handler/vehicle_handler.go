/*
Package handler provides HTTP handler functions for vehicle management.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"routeshare/internal/app/db"
	"routeshare/internal/app/storage"
	"routeshare/internal/app/vehicle"
	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/req"
	"routeshare/internal/pkg/resp"
)

// CreateVehicleInput is the JSON body for registering a vehicle.
type CreateVehicleInput struct {
	Make         string `json:"make" validate:"required,max=40"`
	Model        string `json:"model" validate:"required,max=40"`
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
	Capacity     int    `json:"capacity" validate:"required,gt=0,lte=100"`
	Type         string `json:"type" validate:"required,oneof=car bike truck van bus scooter other"`
	PhotoKey     string `json:"photoKey" validate:"omitempty,max=200"`
}

// HandleCreateVehicle registers a vehicle for the authenticated user.
func HandleCreateVehicle(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateVehicleInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		v, err := deps.Vehicles.Create(r.Context(), vehicle.CreateParams{
			UserID:       identity.ID,
			Make:         input.Make,
			Model:        input.Model,
			LicensePlate: input.LicensePlate,
			Capacity:     input.Capacity,
			Type:         input.Type,
			PhotoKey:     input.PhotoKey,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrVehicleExists))
				return
			}

			logx.Error(err, "failed to create vehicle", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrPersistenceFailed))
			return
		}

		resp.RespondCreated(w, r, v)
	}
}

// HandleListVehicles returns the authenticated user's vehicles.
func HandleListVehicles(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		vehicles, err := deps.Vehicles.ListForUser(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "failed to list vehicles", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if vehicles == nil {
			vehicles = []vehicle.Vehicle{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"vehicles": vehicles,
		})
	}
}

// PresignVehiclePhotoInput is the JSON body for requesting a vehicle photo upload URL.
type PresignVehiclePhotoInput struct {
	FileName string `json:"fileName" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
	FileSize int64  `json:"fileSize" validate:"required,gt=0"`
}

// HandlePresignVehiclePhotoURL generates a pre-signed URL for uploading a vehicle photo.
func HandlePresignVehiclePhotoURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PresignVehiclePhotoInput
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
		fileKey := fmt.Sprintf("vehicles/%s/%s%s", identity.ID, uuid.New().String(), fileExt)

		url, err := deps.StorageService.PresignUpload(
			r.Context(),
			fileKey,
			input.MimeType,
			input.FileSize,
			storage.PresignedURLDuration,
		)
		if err != nil {
			logx.Error(err, "failed to presign vehicle photo upload", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": url,
			"fileKey":   fileKey,
		})
	}
}
