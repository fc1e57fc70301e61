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

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Profile and Avatar Validation Errors.
// These are detected locally and never contact a collaborator.
const (
	// ErrNameTooShort indicates that the display name is shorter than the minimum length.
	ErrNameTooShort = 2101

	// ErrInvalidEmail indicates that the submitted email address is not well formed.
	ErrInvalidEmail = 2102

	// ErrInvalidPassword indicates that the submitted password does not meet the length requirements.
	ErrInvalidPassword = 2103

	// ErrNoFileSelected indicates that an avatar change was requested without choosing a file.
	ErrNoFileSelected = 2201

	// ErrAvatarTooLarge indicates that the selected avatar image exceeds the size limit.
	ErrAvatarTooLarge = 2202

	// ErrUnsupportedImageFormat indicates that the selected avatar image is not a JPEG or PNG.
	ErrUnsupportedImageFormat = 2203
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates that the request requires an authenticated session.
	ErrUnauthorized = 3001

	// ErrAlreadyLoggedIn indicates that an authenticated user attempted an anonymous-only action.
	ErrAlreadyLoggedIn = 3002

	// ErrInvalidCredentials indicates that the email/password combination was rejected.
	ErrInvalidCredentials = 3003

	// ErrSignupFailed indicates that the identity provider rejected the signup request.
	ErrSignupFailed = 3004

	// ErrEmailAlreadyRegistered indicates that an account with the given email already exists.
	ErrEmailAlreadyRegistered = 3005

	// ErrInvalidConfirmationCode indicates that the confirmation code could not be exchanged for a session.
	ErrInvalidConfirmationCode = 3006
)

// 4xxx: Collaborator and Concurrency Errors
const (
	// ErrAvatarUploadFailed indicates that the storage service rejected the avatar upload.
	// The old avatar and profile row remain authoritative.
	ErrAvatarUploadFailed = 4101

	// ErrProfileUpdateFailed indicates that persisting the profile update was rejected.
	ErrProfileUpdateFailed = 4102

	// ErrUpdateInProgress indicates that a profile submission is already in flight
	// for this form instance; the duplicate attempt was rejected locally.
	ErrUpdateInProgress = 4201
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
