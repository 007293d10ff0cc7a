package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "storedesk/internal/core/context"
	"storedesk/internal/core/entity"
)

func TestEnrichCreatedBy(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "thungan-02"})
	doc := &entity.Document{}

	require.NoError(t, EnrichCreatedBy(ctx, doc))
	assert.Equal(t, "thungan-02", doc.CreatedBy)
	assert.Equal(t, "thungan-02", doc.UpdatedBy)
}

func TestEnrich_AnonymousKeepsExisting(t *testing.T) {
	doc := &entity.Document{CreatedBy: "seed", UpdatedBy: "seed"}

	require.NoError(t, EnrichCreatedBy(context.Background(), doc))
	require.NoError(t, EnrichUpdatedBy(context.Background(), doc))
	assert.Equal(t, "seed", doc.CreatedBy)
	assert.Equal(t, "seed", doc.UpdatedBy)
}

func TestEnrichUpdatedBy_LeavesAuthor(t *testing.T) {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "ketoan-01"})
	doc := &entity.Document{CreatedBy: "thungan-02"}

	require.NoError(t, EnrichUpdatedBy(ctx, doc))
	assert.Equal(t, "thungan-02", doc.CreatedBy)
	assert.Equal(t, "ketoan-01", doc.UpdatedBy)
}
