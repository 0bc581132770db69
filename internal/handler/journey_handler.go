/*
Package handler provides HTTP handler functions for journey publishing and browsing.
*/
package handler

import (
	"net/http"
	"time"

	"routeshare/internal/app/db"
	"routeshare/internal/app/journey"
	"routeshare/internal/pkg/auth/jwt"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
	"routeshare/internal/pkg/req"
	"routeshare/internal/pkg/resp"

	"github.com/go-chi/chi/v5"
)

const maxJourneyListLimit = 100

// PointInput is a coordinate pair in journey payloads.
type PointInput struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

// CreateJourneyInput is the JSON body for publishing a journey.
type CreateJourneyInput struct {
	LeaveFrom     PointInput `json:"leaveFrom" validate:"required"`
	GoingTo       PointInput `json:"goingTo" validate:"required"`
	Date          time.Time  `json:"date" validate:"required"`
	ArrivalDate   *time.Time `json:"arrivalDate"`
	DepartureTime string     `json:"departureTime" validate:"omitempty,max=20"`
	ArrivalTime   string     `json:"arrivalTime" validate:"omitempty,max=20"`
	MaxCapacity   int        `json:"maxCapacity" validate:"required,gt=0,lte=100"`
	FareStart     string     `json:"fareStart" validate:"required,max=20"`
	CostPerKg     string     `json:"costPerKg" validate:"required,max=20"`
}

// HandleCreateJourney publishes a new journey owned by the authenticated user.
func HandleCreateJourney(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		if identity == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateJourneyInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		j, err := deps.Journeys.Create(r.Context(), journey.CreateParams{
			UserID:        identity.ID,
			LeaveFrom:     journey.Point{Lat: input.LeaveFrom.Lat, Lng: input.LeaveFrom.Lng},
			GoingTo:       journey.Point{Lat: input.GoingTo.Lat, Lng: input.GoingTo.Lng},
			DepartDate:    input.Date,
			ArrivalDate:   input.ArrivalDate,
			DepartureTime: input.DepartureTime,
			ArrivalTime:   input.ArrivalTime,
			MaxCapacity:   input.MaxCapacity,
			FareStart:     input.FareStart,
			CostPerKg:     input.CostPerKg,
		})
		if err != nil {
			logx.Error(err, "failed to create journey", "user_id", identity.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrPersistenceFailed))
			return
		}

		resp.RespondCreated(w, r, j)
	}
}

// HandleListJourneys returns upcoming journeys, soonest first.
func HandleListJourneys(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		journeys, err := deps.Journeys.ListUpcoming(r.Context(), time.Now(), maxJourneyListLimit)
		if err != nil {
			logx.Error(err, "failed to list journeys")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if journeys == nil {
			journeys = []journey.Journey{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"journeys": journeys,
		})
	}
}

// HandleGetJourney returns a single journey by ID.
func HandleGetJourney(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		journeyID := chi.URLParam(r, "id")
		if journeyID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		j, err := deps.Journeys.GetByID(r.Context(), journeyID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrJourneyNotFound))
				return
			}

			logx.Error(err, "failed to load journey", "journey_id", journeyID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, j)
	}
}
