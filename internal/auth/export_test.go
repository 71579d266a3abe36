package auth

import "time"

func (a *Authenticator) SetClock(now func() time.Time) {
	a.now = now
}
