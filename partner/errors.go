package partner

import "errors"

var (
	// ErrPartnerNotFound is returned when a referenced partner doesn't exist.
	ErrPartnerNotFound = errors.New("partner not found")

	// ErrProjectNotFound is returned when a referenced project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPartnerNotFound) || errors.Is(err, ErrProjectNotFound)
}
