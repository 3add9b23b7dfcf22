package services

import (
	"errors"

	"github.com/valutrade/valutrade-hub/internal/apperrors"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
