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
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Profile and Avatar Validation Errors
	ErrNameTooShort:           {Code: ErrNameTooShort, Message: "Name must be at least 2 characters."},
	ErrInvalidEmail:           {Code: ErrInvalidEmail, Message: "Please enter a valid email address."},
	ErrInvalidPassword:        {Code: ErrInvalidPassword, Message: "Password must be at least 6 characters."},
	ErrNoFileSelected:         {Code: ErrNoFileSelected, Message: "Please select an image to upload."},
	ErrAvatarTooLarge:         {Code: ErrAvatarTooLarge, Message: "Image size must be 2MB or less."},
	ErrUnsupportedImageFormat: {Code: ErrUnsupportedImageFormat, Message: "Image must be in jpg or png format."},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:            {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAlreadyLoggedIn:         {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidCredentials:      {Code: ErrInvalidCredentials, Message: "Incorrect email or password."},
	ErrSignupFailed:            {Code: ErrSignupFailed, Message: "Sign up failed. Please try again."},
	ErrEmailAlreadyRegistered:  {Code: ErrEmailAlreadyRegistered, Message: "This email address is already registered."},
	ErrInvalidConfirmationCode: {Code: ErrInvalidConfirmationCode, Message: "This confirmation link is invalid or has expired."},

	// 4xxx: Collaborator and Concurrency Errors
	ErrAvatarUploadFailed:  {Code: ErrAvatarUploadFailed, Message: "Failed to upload avatar: %s"},
	ErrProfileUpdateFailed: {Code: ErrProfileUpdateFailed, Message: "Failed to update profile: %s"},
	ErrUpdateInProgress:    {Code: ErrUpdateInProgress, Message: "An update is already in progress. Please wait."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
