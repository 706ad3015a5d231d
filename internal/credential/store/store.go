package store

import (
	"context"

	"didwallet/internal/credential"
	pkgerrors "didwallet/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific misses consistent across implementations.
var ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "credential not found")

// Store is the durable collection of accepted credentials. It is mutated only
// by approved outcomes of the approval flow; deletion is an explicit holder
// action.
//
// Error Contract:
// - Delete returns ErrNotFound when no credential carries the id
// - Save never fails on duplicates: a semantic re-issuance overwrites in place
// - Other failures are wrapped infrastructure errors
type Store interface {
	List(ctx context.Context) ([]credential.Credential, error)
	// Save inserts the credential or, when it is a re-issuance of a stored
	// one, overwrites that entry preserving its id and recording the previous
	// save time. Returns the stored form and whether an overwrite happened.
	Save(ctx context.Context, vc credential.Credential, origin string) (credential.Credential, bool, error)
	Delete(ctx context.Context, id string) error
}
