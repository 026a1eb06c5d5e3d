// Package service holds the decision core: the access gate that checks a
// resolved request address against a user's allowlist, and the ledger that
// records at most one check-in per user per calendar day.
package service

import (
	"context"
	"fmt"

	"attendance_backend/internal/model"
)

// AllowlistSource is the credential-store capability the gate needs: the
// current allowlist for a user. repository.UserRepo implements it; tests
// substitute a stub.
type AllowlistSource interface {
	AllowedAddresses(ctx context.Context, userID uint64) ([]string, error)
}

// DeniedError is returned when an address fails the allowlist check. It
// carries the resolved address and the full allowlist so an operator can
// see at a glance why the request was rejected. Echoing the list to the
// denied caller is a known disclosure; the tool is internal and the list is
// already visible to anyone with admin access.
type DeniedError struct {
	UserID     uint64
	ClientIP   string
	AllowedIPs []string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: IP %s is not authorized", e.ClientIP)
}

// Gate decides whether a request from a resolved address may proceed on
// behalf of an authenticated user. It holds no state and caches nothing:
// every call re-reads the allowlist, so an admin edit takes effect on the
// very next request.
type Gate struct {
	allowlists AllowlistSource
}

func NewGate(src AllowlistSource) *Gate { return &Gate{allowlists: src} }

// Authorize returns nil when addr is authorized for userID, a *DeniedError
// when it is not, and repository.ErrNotFound when the user no longer exists
// (the token may outlive the account; that is an authorization failure, not
// a crash). Matching is exact string comparison, no CIDR ranges and no
// address normalization; mapped-IPv4 spellings are handled upstream by the
// client address resolver.
func (g *Gate) Authorize(ctx context.Context, userID uint64, addr string) error {
	ips, err := g.allowlists.AllowedAddresses(ctx, userID)
	if err != nil {
		return err
	}
	// The wildcard wins before membership: a list may hold stale concrete
	// addresses alongside it.
	for _, ip := range ips {
		if ip == model.Wildcard {
			return nil
		}
	}
	for _, ip := range ips {
		if ip == addr {
			return nil
		}
	}
	return &DeniedError{UserID: userID, ClientIP: addr, AllowedIPs: ips}
}
