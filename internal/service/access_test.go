package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance_backend/internal/model"
	"attendance_backend/internal/repository"
)

// stubAllowlist serves allowlists from a map, standing in for the user
// repository.
type stubAllowlist struct {
	lists map[uint64][]string
}

func (s *stubAllowlist) AllowedAddresses(_ context.Context, userID uint64) ([]string, error) {
	ips, ok := s.lists[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ips, nil
}

func TestGateExactMatch(t *testing.T) {
	gate := NewGate(&stubAllowlist{lists: map[uint64][]string{
		1: {"10.0.0.5"},
	}})
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, 1, "10.0.0.5"))

	err := gate.Authorize(ctx, 1, "10.0.0.6")
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "10.0.0.6", denied.ClientIP)
	assert.Equal(t, []string{"10.0.0.5"}, denied.AllowedIPs)
}

func TestGateNoNormalization(t *testing.T) {
	// Matching is literal: a mapped-IPv4 spelling of an allowed address is
	// a different string and must be denied. Normalization is the
	// resolver's job, upstream of the gate.
	gate := NewGate(&stubAllowlist{lists: map[uint64][]string{
		1: {"10.0.0.5"},
	}})

	err := gate.Authorize(context.Background(), 1, "::ffff:10.0.0.5")
	var denied *DeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestGateWildcardBypass(t *testing.T) {
	gate := NewGate(&stubAllowlist{lists: map[uint64][]string{
		1: {"192.168.1.1", model.Wildcard},
	}})
	ctx := context.Background()

	assert.NoError(t, gate.Authorize(ctx, 1, "192.168.1.1"))
	assert.NoError(t, gate.Authorize(ctx, 1, "198.51.100.99"))
	assert.NoError(t, gate.Authorize(ctx, 1, "anything-at-all"))
}

func TestGateEmptyAllowlistDeniesEverything(t *testing.T) {
	gate := NewGate(&stubAllowlist{lists: map[uint64][]string{
		1: {},
	}})

	err := gate.Authorize(context.Background(), 1, "10.0.0.5")
	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Empty(t, denied.AllowedIPs)
}

func TestGateMissingUser(t *testing.T) {
	gate := NewGate(&stubAllowlist{lists: map[uint64][]string{}})

	err := gate.Authorize(context.Background(), 42, "10.0.0.5")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
