package segment

import "errors"

var (
	// ErrInvalidConfiguration возвращается при неположительном лимите сегмента
	ErrInvalidConfiguration = errors.New("segment: invalid configuration")
)
