package api

import (
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader carries the verified user id set by an upstream
// authenticator. The facade trusts it; requests without the header are
// anonymous.
const UserIDHeader = "X-User-ID"

// userIDFromRequest extracts the caller's identity from the request.
// Returns false for anonymous callers and for malformed ids.
func userIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	value := r.Header.Get(UserIDHeader)
	if value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
