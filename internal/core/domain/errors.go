package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Alumni errors
var (
	ErrAlumniNotFound     = errors.New("alumni not found")
	ErrDuplicateIDCard    = errors.New("id card already registered")
	ErrInvalidStatus      = errors.New("invalid status value")
	ErrInvalidPosition    = errors.New("invalid position value")
	ErrPositionSlotFull   = errors.New("position slot is full")
	ErrInvalidPayMethod   = errors.New("invalid payment method")
	ErrInvalidDelivery    = errors.New("invalid delivery option")
)

// Shipping errors
var (
	ErrInvalidShipStatus  = errors.New("invalid shipping status value")
	ErrNotApproved        = errors.New("registration is not approved")
	ErrNotMailDelivery    = errors.New("registrant did not choose mail delivery")
	ErrMissingTracking    = errors.New("tracking number is required")
	ErrBulkPrecheckFailed = errors.New("bulk shipping precheck failed")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationInvalid  = errors.New("notification requires title, message and type")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrAdminExists       = errors.New("an admin account already exists")
	ErrTokenRevoked      = errors.New("token revoked")
)

// Payment errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
)
