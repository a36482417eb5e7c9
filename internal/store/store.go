// Package store contains all SQL against the inventory database. Multi-row
// invariants (composite-key uniqueness, location acyclicity) are enforced
// here, as close to the storage boundary as possible: uniqueness through the
// schema's composite primary keys, acyclicity through an ancestor walk inside
// the writing transaction.
package store

import (
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"

	"github.com/mlakar/inventar/internal/model"
)

// sqliteConstraintCode is the SQLITE_CONSTRAINT primary result code.
const sqliteConstraintCode = 19

// constraintErr maps SQLite constraint failures (composite primary keys,
// foreign keys, CHECKs) to model.ErrConstraintViolation, leaving other
// errors untouched.
func constraintErr(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqliteConstraintCode {
		return fmt.Errorf("%w: %v", model.ErrConstraintViolation, err)
	}
	return err
}

// validDate checks that a date string is an ISO calendar date (YYYY-MM-DD).
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
