package auth

import "crypto/subtle"

// MatchAdminCode reports whether a supplied registration code grants the
// admin role. An empty configured code disables elevation entirely, so a
// blank-for-blank match can never mint an admin by accident.
func MatchAdminCode(supplied, configured string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(configured)) == 1
}
