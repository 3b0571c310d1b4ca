package services

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	ErrAppNotFound   = errors.New("application not found")
	ErrNotOwner      = errors.New("only the owner can modify this application")
	ErrSelfVote      = errors.New("owner cannot vote on own content")
	ErrDuplicateVote = errors.New("duplicate vote")
	ErrNotVoted      = errors.New("user has not voted")

	ErrAlreadyReported = errors.New("already reported")
	ErrReportNotFound  = errors.New("report not found")

	ErrUserNotFound    = errors.New("user not found")
	ErrAdminRoleLocked = errors.New("admin role cannot be changed")

	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponCodeTaken = errors.New("coupon code already exists")

	ErrMediaUnavailable = errors.New("media host is not configured")
)
