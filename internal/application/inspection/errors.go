package inspection

import (
	"errors"
	"fmt"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// ErrExportDisabled is returned by Export when no snapshot store is configured.
var ErrExportDisabled = errors.New("snapshot export not configured")

// unavailable tags raw backend failures as ErrBackendUnavailable while
// letting structural errors through unchanged.
func unavailable(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrStoreNotFound),
		errors.Is(err, domain.ErrAuthFailure),
		errors.Is(err, domain.ErrBackendUnavailable):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	}
}
