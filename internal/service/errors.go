package service

import (
	"errors"

	"horizon/coach-api/internal/apperr"
	"horizon/coach-api/internal/domain"
	"horizon/coach-api/internal/repository"
)

// --- Shared Error Definitions ---
var (
	ErrForbidden        = apperr.New(apperr.KindForbidden, "You do not have permission to access this resource.")
	ErrInvalidReference = apperr.Validation("A referenced user or exercise does not exist.")
	ErrInternal         = apperr.New(apperr.KindInternal, "Internal server error.")
)

// translate maps repository errors onto service errors. notFound and conflict
// may be nil when the operation cannot produce them.
func translate(err error, notFound, conflict *apperr.Error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case conflict != nil && errors.Is(err, repository.ErrConflict):
		return conflict
	case errors.Is(err, repository.ErrInvalidReference):
		return ErrInvalidReference
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, ErrInternal.Message, err)
}

// Caller identifies the authenticated user making a request.
type Caller struct {
	UserID int64
	Role   domain.Role
}

// CanAccessUser reports whether the caller may read or write data owned by
// userID. Trainers may access every client.
func (c Caller) CanAccessUser(userID int64) bool {
	return c.Role.IsTrainer() || c.UserID == userID
}
