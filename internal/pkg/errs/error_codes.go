/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Journey, Booking, and Messaging Business Logic Errors
const (
	// ErrJourneyNotFound indicates that the referenced journey does not exist.
	ErrJourneyNotFound = 2101

	// ErrJourneyFull indicates that the journey has no remaining seats.
	ErrJourneyFull = 2102

	// ErrOwnJourneyBooking indicates that a user attempted to book their own journey.
	ErrOwnJourneyBooking = 2103

	// ErrBookingExists indicates that an active booking already exists for this user and journey.
	ErrBookingExists = 2104

	// ErrBookingNotFound indicates that the referenced booking does not exist.
	ErrBookingNotFound = 2105

	// ErrBookingStatusInvalid indicates that an unsupported booking status value was supplied.
	ErrBookingStatusInvalid = 2106

	// ErrBookingTransition indicates that the requested booking status change is not allowed.
	ErrBookingTransition = 2107

	// ErrMessageContentTooLong indicates that the chat message text exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrVehicleExists indicates that a vehicle with the same license plate is already registered.
	ErrVehicleExists = 2301

	// ErrVehicleNotFound indicates that the referenced vehicle does not exist.
	ErrVehicleNotFound = 2302

	// ErrFileSizeTooLarge indicates that the declared upload size exceeded the allowed limit.
	ErrFileSizeTooLarge = 2401
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates that the request requires an authenticated identity.
	ErrUnauthorized = 3001

	// ErrInvalidCredentials indicates that the supplied email/password pair is incorrect.
	ErrInvalidCredentials = 3002

	// ErrUserAlreadyExists indicates that the email address is already registered.
	ErrUserAlreadyExists = 3003

	// ErrUserNotFound indicates that the requested user account does not exist.
	ErrUserNotFound = 3004

	// ErrAlreadyLoggedIn indicates that a signed-in user attempted to register or log in again.
	ErrAlreadyLoggedIn = 3005

	// ErrInvalidEmail indicates that the supplied email address is not acceptable.
	ErrInvalidEmail = 3006

	// ErrInvalidPassword indicates that the supplied password does not meet requirements.
	ErrInvalidPassword = 3007

	// ErrUnboundSession indicates that an event requiring a bound identity arrived
	// on a connection that has not yet sent register-user.
	ErrUnboundSession = 3101

	// ErrMalformedEvent indicates that an inbound realtime event is missing required payload fields.
	ErrMalformedEvent = 3102

	// ErrUnknownEvent indicates that the inbound realtime event name is not recognized.
	ErrUnknownEvent = 3103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrPersistenceFailed indicates that a database write could not be completed.
	ErrPersistenceFailed = 5001

	// ErrFileStorageFailed indicates that the object storage service could not complete the request.
	ErrFileStorageFailed = 5002
)
