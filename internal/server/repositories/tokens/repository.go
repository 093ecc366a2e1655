// Package tokens stores issued single-use tokens. A row means "issued and
// not consumed yet"; it is the only authority for validity beyond the
// token's own signature and expiry.
package tokens

import "context"

type Repository interface {
	// Create records token as outstanding for userID.
	Create(ctx context.Context, userID int64, token string) error

	// Exists reports whether token is outstanding for userID.
	Exists(ctx context.Context, userID int64, token string) (bool, error)

	// Delete removes token for userID and reports whether a row was removed.
	Delete(ctx context.Context, userID int64, token string) (bool, error)
}
