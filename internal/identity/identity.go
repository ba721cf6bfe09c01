// Package identity resolves API callers to their platform identity:
// who they are, what role they hold, and which organization they belong to.
package identity

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
)

// Role is a caller's platform role.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleVendor   Role = "VENDOR"
	RoleSupplier Role = "SUPPLIER"
)

// Identity describes an authenticated caller.
type Identity struct {
	UserID     string
	Role       Role
	VendorID   *string
	SupplierID *string
}

// IsAdmin reports whether the caller holds the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleAdmin
}

// ErrUnauthenticated is returned when a token does not resolve to a caller.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Provider resolves a bearer token to a caller identity.
type Provider interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// TokenProvider resolves tokens against the api_tokens table. Tokens are
// stored as SHA-256 digests; the plaintext never touches the database.
type TokenProvider struct {
	db *sql.DB
}

// NewTokenProvider creates a Postgres-backed token provider.
func NewTokenProvider(db *sql.DB) *TokenProvider {
	return &TokenProvider{db: db}
}

// Digest returns the hex SHA-256 digest stored for a plaintext token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Resolve looks up a non-revoked token by digest.
func (p *TokenProvider) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthenticated
	}

	var id Identity
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, role, vendor_id, supplier_id
		 FROM api_tokens
		 WHERE token_digest = $1 AND revoked_at IS NULL`,
		Digest(token),
	).Scan(&id.UserID, &id.Role, &id.VendorID, &id.SupplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrUnauthenticated
	}
	if err != nil {
		return Identity{}, fmt.Errorf("resolve token: %w", err)
	}
	return id, nil
}

// Static is a fixed token-to-identity map, for tests and local development.
type Static map[string]Identity

// Resolve implements Provider.
func (s Static) Resolve(ctx context.Context, token string) (Identity, error) {
	id, ok := s[token]
	if !ok {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}
