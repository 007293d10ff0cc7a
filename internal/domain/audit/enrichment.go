// Package audit fills authorship fields on documents from the request context.
package audit

import (
	"context"

	appctx "storedesk/internal/core/context"
)

// Authored is implemented by documents that record who created and edited them.
type Authored interface {
	SetCreatedBy(userID string)
	SetUpdatedBy(userID string)
}

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the caller.
// No-op when the request is anonymous.
func EnrichCreatedBy[T Authored](ctx context.Context, doc T) error {
	if userID := appctx.GetUserID(ctx); userID != "" {
		doc.SetCreatedBy(userID)
	}
	return nil
}

// EnrichUpdatedBy sets UpdatedBy from the caller.
func EnrichUpdatedBy[T Authored](ctx context.Context, doc T) error {
	if userID := appctx.GetUserID(ctx); userID != "" {
		doc.SetUpdatedBy(userID)
	}
	return nil
}
