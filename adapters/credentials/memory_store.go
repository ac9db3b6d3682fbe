package credentials

import (
	"context"
	"fmt"

	"github.com/layer-3/catalog/core"
)

// Seed is a plaintext user entry hashed when the store is built
type Seed struct {
	Username string
	Password string
	Role     core.Role
}

// DefaultUsers are the accounts every instance starts with
var DefaultUsers = []Seed{
	{Username: "admin", Password: "senha123", Role: core.RoleAdmin},
	{Username: "usuario", Password: "pass456", Role: core.RoleUser},
	{Username: "ericson", Password: "dev2025", Role: core.RoleAdmin},
}

// MemoryStore is a read-only credential table implementing ports.CredentialStore
type MemoryStore struct {
	users map[string]core.Credential
	// dummyHash is verified against for unknown users so both paths cost the same
	dummyHash string
}

// NewMemoryStore hashes the seeds with the given parameters
func NewMemoryStore(seeds []Seed, params Params) (*MemoryStore, error) {
	s := &MemoryStore{users: make(map[string]core.Credential, len(seeds))}

	for _, seed := range seeds {
		if seed.Username == "" || !seed.Role.Valid() {
			return nil, fmt.Errorf("seed user %q: %w", seed.Username, core.ErrInvalidArgument)
		}
		hash, err := HashPassword(seed.Password, params)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", seed.Username, err)
		}
		s.users[seed.Username] = core.Credential{
			Username:   seed.Username,
			SecretHash: hash,
			Role:       seed.Role,
		}
	}

	dummy, err := HashPassword("", params)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

// Authenticate returns the role of the user when the password matches
func (s *MemoryStore) Authenticate(ctx context.Context, username string, password string) (core.Role, error) {
	cred, ok := s.users[username]
	if !ok {
		_ = VerifyPassword(password, s.dummyHash)
		return "", core.ErrInvalidCredentials
	}

	if err := VerifyPassword(password, cred.SecretHash); err != nil {
		return "", core.ErrInvalidCredentials
	}

	return cred.Role, nil
}

// Role returns the current role of a known user
func (s *MemoryStore) Role(ctx context.Context, username string) (core.Role, error) {
	cred, ok := s.users[username]
	if !ok {
		return "", fmt.Errorf("lookup %q: %w", username, core.ErrUnknownUser)
	}
	return cred.Role, nil
}
