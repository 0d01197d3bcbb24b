package model

import "time"

// User represents an application user record as stored in the `users`
// table. Identity itself (password, tokens) is handled by the auth
// layer; the booking core only mutates LoyaltyPoints and the cached
// WalletBalanceCents, always through the wallet ledger for the latter.
//
// Fields:
//  ID                 - primary key identifier of the user.
//  Email              - unique email address.
//  PasswordHash       - bcrypt hashed password.
//  Role               - role name (CUSTOMER or ADMIN).
//  LoyaltyPoints      - integer points balance, earned at 1% of each
//                       booking's final amount.
//  WalletBalanceCents - cached wallet balance; derived from the ledger.
//  IsActive           - whether the account is active.
//  CreatedAt          - timestamp of creation.
//  UpdatedAt          - timestamp of last update.
type User struct {
	ID                 uint64    // users.id
	Email              string    // users.email
	PasswordHash       string    // users.password_hash
	Role               string    // users.role
	LoyaltyPoints      uint32    // users.loyalty_points
	WalletBalanceCents int64     // users.wallet_balance_cents
	IsActive           bool      // users.is_active
	CreatedAt          time.Time // users.created_at
	UpdatedAt          time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user; only the SHA-256 hash of the raw
// token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
