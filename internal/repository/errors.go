package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate reports a unique-constraint violation. The database indexes
// on (student, quiz), (student, course) and (user, course) are the final
// guard against concurrent duplicate writes; services treat their own
// pre-checks as an optimisation only.
var ErrDuplicate = errors.New("duplicate record")

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
