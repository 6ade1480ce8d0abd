package fortune

import (
	"math/rand/v2"
	"strconv"

	"github.com/PabloGalante/pill-oracle/internal/domain"
)

// Identity is the pair of throwaway identifiers sent with one request. They
// only satisfy the endpoint's request shape and carry no security meaning.
type Identity struct {
	UserID    domain.UserID
	SessionID domain.SessionID
}

type IdentityFunc func(agentID string) Identity

// NewIdentity returns a pseudo user id and a session id namespaced under
// agentID.
func NewIdentity(agentID string) Identity {
	return Identity{
		UserID:    domain.UserID(shortToken() + "@test.com"),
		SessionID: domain.SessionID(agentID + "-" + shortToken()),
	}
}

func shortToken() string {
	return strconv.FormatUint(rand.Uint64N(1<<40), 36)
}
