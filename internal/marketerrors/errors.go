package marketerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrTransactionNotFound = errors.New("escrow transaction not found")
	ErrNoBids              = errors.New("no bids found for auction")
	ErrUserNoBids          = errors.New("user has not placed any bids")
	ErrDuplicateData       = errors.New("duplicate data")
	ErrDatabase            = errors.New("database error")
)

// business logic errors
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrBidTooLow              = errors.New("bid amount too low")
	ErrAuctionEnded           = errors.New("auction is not accepting bids")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrPermissionDenied       = errors.New("permission denied")
)

// Taxonomy codes returned to API callers
const (
	CodeBidTooLow              = "BID_TOO_LOW"
	CodeAuctionEnded           = "AUCTION_ENDED"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeDuplicateData          = "DUPLICATE_DATA"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeNotFound               = "NOT_FOUND"
	CodeDatabaseError          = "DATABASE_ERROR"
	CodeServerError            = "SERVER_ERROR"
)

// Code maps an error chain to its taxonomy code
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBidTooLow):
		return CodeBidTooLow
	case errors.Is(err, ErrAuctionEnded):
		return CodeAuctionEnded
	case errors.Is(err, ErrInvalidStateTransition):
		return CodeInvalidStateTransition
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrDuplicateData):
		return CodeDuplicateData
	case errors.Is(err, ErrPermissionDenied):
		return CodePermissionDenied
	case errors.Is(err, ErrAuctionNotFound), errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrNoBids), errors.Is(err, ErrUserNoBids):
		return CodeNotFound
	case errors.Is(err, ErrDatabase):
		return CodeDatabaseError
	default:
		return CodeServerError
	}
}
