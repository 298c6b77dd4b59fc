package service

import "errors"

var (
	// ErrValidation marks a request that is missing or has malformed fields
	ErrValidation = errors.New("validation error")
	// ErrGatewayUnavailable covers every way the text-generation provider can fail
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	// ErrParse means no usable nutrition object could be extracted from a reply
	ErrParse = errors.New("parse error")
	// ErrStorage wraps persistence failures
	ErrStorage = errors.New("storage error")
	// ErrSessionNotFound is returned for lookups of unknown sessions
	ErrSessionNotFound = errors.New("session not found")
	// ErrExportDisabled is returned when no export bucket is configured
	ErrExportDisabled = errors.New("session export is not configured")
)
