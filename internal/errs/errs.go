package errs

import "errors"

// Доменные сентинель-ошибки для маппинга в HTTP коды в handlers.
var (
	// Permission and hardware.
	ErrPermissionDenied  = errors.New("permission denied")
	ErrCameraUnavailable = errors.New("camera is not available")
	ErrInvalidState      = errors.New("camera is not in a state that allows this action")

	// Remote API.
	ErrTokenExpired = errors.New("token expired")
	ErrDecode       = errors.New("failed to decode response")
	ErrRejected     = errors.New("request rejected by server")

	// Capture and upload.
	ErrUploadInFlight = errors.New("an upload is already in flight")
	ErrNoRecording    = errors.New("no recording to send")
	ErrForeignFile    = errors.New("file is outside the recordings directory")

	// Validation.
	ErrNameEmpty      = errors.New("name is empty")
	ErrGroupNameEmpty = errors.New("group name is empty")
	ErrPhoneEmpty     = errors.New("mobile number is empty")

	ErrOwnerNotFound    = errors.New("owner not found in feed")
	ErrPlayerNotOpen    = errors.New("player is not open")
	ErrContactNotFound  = errors.New("contact not found")
	ErrCredentialAbsent = errors.New("no stored credential")
)
