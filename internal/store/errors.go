package store

import (
	"errors"

	pkgerrors "github.com/airbear/airbear-backend/pkg/errors"
)

// Translate maps store sentinels onto typed API errors. entity names the
// record in the public message ("ride not found").
func Translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, entity+" not found")
	case errors.Is(err, ErrConflict):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, entity+" already exists")
	case pkgerrors.As(err) != nil:
		return err
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store "+entity)
	}
}
