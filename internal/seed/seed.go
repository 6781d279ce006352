// Package seed drives the platform's REST API with fixture data: account
// registration, token refresh, avatar uploads, post creation and the
// fixture-vs-server consistency check.
package seed

// Stats tallies one run. Skipped entries are fixture gaps (no token, no
// photo), not errors; any Failed entry makes the whole run fail.
type Stats struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// OK reports whether the run had no failures.
func (s Stats) OK() bool { return s.Failed == 0 }
