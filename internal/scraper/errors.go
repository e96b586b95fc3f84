package scraper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLoginFailed indicates that Minerva rejected the user/secret pair.
var ErrLoginFailed = errors.New("minerva login failed: invalid user or secret")

// ErrNotRegistered indicates a valid login for a term the user is not
// registered in.
var ErrNotRegistered = errors.New("not registered for the requested term")

// UnknownSeasonError indicates a season outside the fixed fall/winter/summer
// set.
type UnknownSeasonError struct {
	Season string
}

func (e *UnknownSeasonError) Error() string {
	return fmt.Sprintf("unknown season %q (valid seasons: %s)",
		e.Season, strings.Join(Seasons, ", "))
}
