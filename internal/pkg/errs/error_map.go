/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Journey, Booking, and Messaging Business Logic Errors
	ErrJourneyNotFound:       {Code: ErrJourneyNotFound, Message: "Journey not found.", Status: http.StatusNotFound},
	ErrJourneyFull:           {Code: ErrJourneyFull, Message: "This journey has no available seats."},
	ErrOwnJourneyBooking:     {Code: ErrOwnJourneyBooking, Message: "You cannot book your own journey."},
	ErrBookingExists:         {Code: ErrBookingExists, Message: "An active booking for this journey already exists.", Status: http.StatusConflict},
	ErrBookingNotFound:       {Code: ErrBookingNotFound, Message: "Booking not found.", Status: http.StatusNotFound},
	ErrBookingStatusInvalid:  {Code: ErrBookingStatusInvalid, Message: "Invalid booking status value."},
	ErrBookingTransition:     {Code: ErrBookingTransition, Message: "Cannot change booking from %s to %s."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrVehicleExists:         {Code: ErrVehicleExists, Message: "A vehicle with this license plate is already registered.", Status: http.StatusConflict},
	ErrVehicleNotFound:       {Code: ErrVehicleNotFound, Message: "Vehicle not found.", Status: http.StatusNotFound},
	ErrFileSizeTooLarge:      {Code: ErrFileSizeTooLarge, Message: "File is too large."},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "This email address is already registered.", Status: http.StatusConflict},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUnboundSession:     {Code: ErrUnboundSession, Message: "Register your user before sending events."},
	ErrMalformedEvent:     {Code: ErrMalformedEvent, Message: "Event payload is missing required fields."},
	ErrUnknownEvent:       {Code: ErrUnknownEvent, Message: "Unsupported event type."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrPersistenceFailed: {Code: ErrPersistenceFailed, Message: "Failed to save data. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
