package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"marketai/internal/marketerrors"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the authenticated caller's user ID
	HeaderUserID = "X-User-ID"
	// HeaderUserRole carries the caller's role; "admin" unlocks administrative operations
	HeaderUserRole = "X-User-Role"

	roleAdmin = "admin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, marketerrors.CodeInvalidInput, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status, taxonomy code and message
func MapErrorToHTTP(err error) (int, string, string) {
	code := marketerrors.Code(err)
	switch {
	case errors.Is(err, marketerrors.ErrAuctionNotFound):
		return http.StatusNotFound, code, "auction not found"
	case errors.Is(err, marketerrors.ErrTransactionNotFound):
		return http.StatusNotFound, code, "transaction not found"
	case errors.Is(err, marketerrors.ErrNoBids):
		return http.StatusNotFound, code, "no bids found for auction"
	case errors.Is(err, marketerrors.ErrUserNoBids):
		return http.StatusNotFound, code, "no auctions found for user"
	case errors.Is(err, marketerrors.ErrInvalidInput):
		return http.StatusBadRequest, code, "invalid request details"
	case errors.Is(err, marketerrors.ErrBidTooLow):
		return http.StatusConflict, code, "bid amount too low"
	case errors.Is(err, marketerrors.ErrAuctionEnded):
		return http.StatusConflict, code, "auction is not accepting bids"
	case errors.Is(err, marketerrors.ErrInvalidStateTransition):
		return http.StatusConflict, code, "operation not allowed in current state"
	case errors.Is(err, marketerrors.ErrDuplicateData):
		return http.StatusConflict, code, "resource already exists"
	case errors.Is(err, marketerrors.ErrPermissionDenied):
		return http.StatusForbidden, code, "permission denied"
	case errors.Is(err, marketerrors.ErrDatabase):
		return http.StatusInternalServerError, code, "database error"
	default:
		return http.StatusInternalServerError, code, "internal server error"
	}
}

// RespondError writes the mapped error response and logs it. Server-side failures log at
// error level, caller mistakes at warn.
func RespondError(c *gin.Context, handlerName, logMessage string, err error, fields map[string]any) {
	status, code, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, code, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["code"] = code
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+logMessage, fields)
		return
	}
	utils.Warn(handlerName+": "+logMessage, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// Actor returns the caller identity taken from the request headers
func Actor(c *gin.Context) (userID string, isAdmin bool) {
	return c.GetHeader(HeaderUserID), c.GetHeader(HeaderUserRole) == roleAdmin
}

// RequireActor returns the caller's user ID, or writes a 401 and returns false when it is missing
func RequireActor(c *gin.Context, handlerName string) (string, bool, bool) {
	userID, isAdmin := Actor(c)
	if userID == "" {
		err := fmt.Errorf("missing %s header: %w", HeaderUserID, marketerrors.ErrPermissionDenied)
		utils.JSONError(c, http.StatusUnauthorized, marketerrors.CodePermissionDenied, err, "caller identity required")
		utils.Warn(handlerName+": missing caller identity", map[string]any{"path": c.FullPath()})
		return "", false, false
	}
	return userID, isAdmin, true
}

// RequireAdmin writes a 403 and returns false unless the caller has the admin role
func RequireAdmin(c *gin.Context, handlerName string) (string, bool) {
	userID, isAdmin, ok := RequireActor(c, handlerName)
	if !ok {
		return "", false
	}
	if !isAdmin {
		err := fmt.Errorf("admin role required: %w", marketerrors.ErrPermissionDenied)
		utils.JSONError(c, http.StatusForbidden, marketerrors.CodePermissionDenied, err, "permission denied")
		utils.Warn(handlerName+": admin role required", map[string]any{"user_id": userID})
		return "", false
	}
	return userID, true
}
