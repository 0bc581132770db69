/*
Package booking owns the booking-approval workflow.

This file defines the Service, which applies the workflow rules and emits
realtime notifications through the delivery gateway's outbound API.
*/
package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"routeshare/internal/app/db"
	"routeshare/internal/app/journey"
	"routeshare/internal/app/realtime"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
)

// bookingStore is the persistence surface the workflow needs from the booking Store.
type bookingStore interface {
	Create(ctx context.Context, requestedBy, requestedTo, journeyID string) (Booking, error)
	GetByID(ctx context.Context, id string) (Booking, error)
	HasActive(ctx context.Context, requestedBy, journeyID string) (bool, error)
	UpdateStatus(ctx context.Context, id, status string) (Booking, error)
}

// journeyStore is the journey lookup surface the workflow needs.
type journeyStore interface {
	GetByID(ctx context.Context, id string) (journey.Journey, error)
	DecrementSeats(ctx context.Context, id string) error
}

// Notifier is the outbound realtime emission API. It is satisfied by
// *realtime.Gateway; delivery is fire-and-forget and an offline target is
// never treated as a workflow failure.
type Notifier interface {
	Notify(targetUserID, event string, payload any) realtime.Outcome
}

// RequestEvent is the payload of a booking-request notification sent to the
// journey owner when a new booking is created.
type RequestEvent struct {
	BookingID string    `json:"bookingId"`
	JourneyID string    `json:"journeyId"`
	SenderID  string    `json:"senderId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusEvent is the payload of booking-accepted / booking-status
// notifications sent to the booking counterparty on a status change.
type StatusEvent struct {
	BookingID string `json:"bookingId"`
	JourneyID string `json:"journeyId"`
	Status    string `json:"status"`
	UserID    string `json:"userId"`
}

// Service applies the booking workflow rules.
type Service struct {
	bookings bookingStore
	journeys journeyStore
	notifier Notifier
	logger   zerolog.Logger
}

// NewService constructs a booking workflow Service.
func NewService(bookings bookingStore, journeys journeyStore, notifier Notifier) *Service {
	return &Service{
		bookings: bookings,
		journeys: journeys,
		notifier: notifier,
		logger:   logx.Logger().With().Str("component", "booking").Logger(),
	}
}

// CreateBooking validates and stores a new booking request, then notifies the
// journey owner if they are online.
func (s *Service) CreateBooking(ctx context.Context, requesterID, journeyID string) (Booking, *errs.CustomError) {
	j, err := s.journeys.GetByID(ctx, journeyID)
	if err != nil {
		if db.IsNotFound(err) {
			return Booking{}, errs.NewError(errs.ErrJourneyNotFound)
		}
		logx.Error(err, "failed to load journey for booking", "journey_id", journeyID)
		return Booking{}, errs.NewError(errs.ErrUnknown)
	}

	if j.UserID == requesterID {
		return Booking{}, errs.NewError(errs.ErrOwnJourneyBooking)
	}

	if j.AvailableSeats <= 0 {
		return Booking{}, errs.NewError(errs.ErrJourneyFull)
	}

	exists, err := s.bookings.HasActive(ctx, requesterID, journeyID)
	if err != nil {
		logx.Error(err, "failed to check existing booking", "journey_id", journeyID)
		return Booking{}, errs.NewError(errs.ErrUnknown)
	}
	if exists {
		return Booking{}, errs.NewError(errs.ErrBookingExists)
	}

	b, err := s.bookings.Create(ctx, requesterID, j.UserID, journeyID)
	if err != nil {
		logx.Error(err, "failed to create booking", "journey_id", journeyID)
		return Booking{}, errs.NewError(errs.ErrPersistenceFailed)
	}

	outcome := s.notifier.Notify(j.UserID, realtime.EventBookingRequest, RequestEvent{
		BookingID: b.ID,
		JourneyID: b.JourneyID,
		SenderID:  b.RequestedBy,
		Status:    b.Status,
		Timestamp: b.CreatedAt,
	})
	if outcome.Unreachable() {
		s.logger.Info().
			Str("booking_id", b.ID).
			Str("owner_id", j.UserID).
			Msg("Journey owner offline; booking request notification skipped.")
	}

	return b, nil
}

// UpdateStatus applies a booking status change on behalf of userID, who must be
// either the journey owner or the original requester. An accepted booking
// cannot be rejected afterwards. Accepting consumes one seat on the journey.
func (s *Service) UpdateStatus(ctx context.Context, userID, bookingID, status string) (Booking, *errs.CustomError) {
	switch status {
	case StatusAccepted, StatusRejected, StatusCancelled:
	default:
		return Booking{}, errs.NewError(errs.ErrBookingStatusInvalid)
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if db.IsNotFound(err) {
			return Booking{}, errs.NewError(errs.ErrBookingNotFound)
		}
		logx.Error(err, "failed to load booking", "booking_id", bookingID)
		return Booking{}, errs.NewError(errs.ErrUnknown)
	}

	isOwner := b.RequestedTo == userID
	isRequester := b.RequestedBy == userID
	if !isOwner && !isRequester {
		return Booking{}, errs.NewError(errs.ErrUnauthorized)
	}

	if b.Status == StatusAccepted && status == StatusRejected {
		return Booking{}, errs.NewError(errs.ErrBookingTransition, b.Status, status)
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		logx.Error(err, "failed to update booking status", "booking_id", bookingID)
		return Booking{}, errs.NewError(errs.ErrPersistenceFailed)
	}

	if status == StatusAccepted && isOwner {
		if err := s.journeys.DecrementSeats(ctx, b.JourneyID); err != nil {
			// The booking is already accepted; the seat count correction failed
			// but the state change stands.
			logx.Error(err, "failed to decrement journey seats", "journey_id", b.JourneyID)
		}
	}

	// Notify the counterparty of the change.
	target := b.RequestedBy
	if isRequester {
		target = b.RequestedTo
	}

	event := realtime.EventBookingStatus
	if status == StatusAccepted {
		event = realtime.EventBookingAccepted
	}

	s.notifier.Notify(target, event, StatusEvent{
		BookingID: updated.ID,
		JourneyID: updated.JourneyID,
		Status:    updated.Status,
		UserID:    userID,
	})

	return updated, nil
}
