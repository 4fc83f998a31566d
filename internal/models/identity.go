package models

import "strconv"

// Identity is a user on the source host
type Identity struct {
	// ID is the numeric account id (0 when the payload only carried a login)
	ID int64 `json:"id"`
	// Login is the account handle (e.g., "ms-testers")
	Login string `json:"login"`
}

// Key returns a stable per-account key, preferring the numeric id
func (i Identity) Key() string {
	if i.ID != 0 {
		return strconv.FormatInt(i.ID, 10)
	}
	return i.Login
}

// ContainsLogin reports whether any identity in the list has the given login
func ContainsLogin(identities []Identity, login string) bool {
	for _, i := range identities {
		if i.Login == login {
			return true
		}
	}
	return false
}
