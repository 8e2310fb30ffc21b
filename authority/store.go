package authority

import "context"

type Store interface {
	// GetAuthority returns the singleton or an error wrapping ErrNotInitialized.
	GetAuthority(ctx context.Context) (*State, error)
	// InitAuthority stores the genesis state. It fails with ErrAlreadyInitialized
	// when a state already exists.
	InitAuthority(ctx context.Context, s *State) error
}
