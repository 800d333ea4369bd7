package commands

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/strand/internal/routines/domain"
	sharedDomain "github.com/felixgeelhaar/strand/internal/shared/domain"
)

// clock decides which calendar day is today for the routine commands.
type clock struct {
	now func() time.Time
	loc *time.Location
}

func systemClock() clock {
	return clock{now: time.Now, loc: time.Local}
}

func newClock(now func() time.Time, loc *time.Location) clock {
	c := systemClock()
	if now != nil {
		c.now = now
	}
	if loc != nil {
		c.loc = loc
	}
	return c
}

func (c clock) today() sharedDomain.Date {
	return sharedDomain.DateOf(c.now().In(c.loc))
}

// notFuture rejects dates after today.
func (c clock) notFuture(date sharedDomain.Date) error {
	if today := c.today(); date.After(today) {
		return fmt.Errorf("%w: %s is after %s", domain.ErrFutureDate, date, today)
	}
	return nil
}
