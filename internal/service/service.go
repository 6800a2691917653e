// Package service holds the business rules between the HTTP handlers and
// the repositories. Services return sentinel errors that handlers map to
// HTTP statuses.
package service

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
