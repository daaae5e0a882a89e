package timings

import (
	"context"
	"errors"

	"github.com/hamed0406/prayertimes/internal/domain"
)

var (
	ErrStatus    = errors.New("unexpected http status")
	ErrAPICode   = errors.New("unexpected api code")
	ErrMalformed = errors.New("malformed response")
)

// Source returns the prayer times for one date. Only the known prayer names
// are returned; a name the remote omits is absent from the map.
type Source interface {
	Fetch(ctx context.Context, date domain.Date) (domain.Times, error)
}
