/*
Package handler provides HTTP handler functions for the booking workflow.

Booking state changes happen over REST; the workflow service emits the matching
realtime notification to the counterparty through the delivery gateway.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"routeshare/internal/app/booking"
	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/req"
	"routeshare/internal/pkg/resp"
)

// CreateBookingInput is the JSON body for requesting a booking.
type CreateBookingInput struct {
	JourneyID string `json:"journeyId" validate:"required,uuid4"`
}

// UpdateBookingStatusInput is the JSON body for accepting, rejecting, or
// cancelling a booking.
type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected cancelled"`
}

// HandleCreateBooking creates a booking request for the authenticated user.
func HandleCreateBooking(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateBookingInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		b, customErr := deps.BookingService.CreateBooking(r.Context(), identity.ID, input.JourneyID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondCreated(w, r, b)
	}
}

// HandleUpdateBookingStatus applies a booking status change on behalf of the
// authenticated user.
func HandleUpdateBookingStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		bookingID := chi.URLParam(r, "id")
		if bookingID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		var input UpdateBookingStatusInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		b, customErr := deps.BookingService.UpdateStatus(r.Context(), identity.ID, bookingID, input.Status)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, b)
	}
}

// HandleListBookings returns every booking the authenticated user sent or received.
func HandleListBookings(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		bookings, err := deps.Bookings.ListForUser(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "failed to list bookings", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if bookings == nil {
			bookings = []booking.Booking{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"bookings": bookings,
		})
	}
}
