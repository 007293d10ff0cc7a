package document_repo

import (
	"context"
	"errors"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/infrastructure/storage/postgres"
)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase receipt repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	schema := docSchema{
		table:          "doc_purchases",
		entityName:     "purchase",
		kind:           documents.KindPurchase,
		partnerCol:     "supplier_id",
		partnerNameCol: "supplier_name",
		statusExpr:     settledStatusExpr,
		stats:          settledStats,
	}
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm, schema,
			postgres.ExtractDBColumns[purchase.Purchase](),
			func() *purchase.Purchase { return new(purchase.Purchase) },
			func(p *purchase.Purchase) *documents.Lines { return &p.Items },
		),
	}
}

func (r *PurchaseRepo) ApplyPayment(ctx context.Context, purchaseID id.ID, amount types.Money) (*purchase.Purchase, error) {
	if err := applySettlement(ctx, r.querier(ctx), r.schema.table, purchaseID, amount); err != nil {
		if errors.Is(err, errGuardFailed) {
			cur, getErr := r.GetByID(ctx, purchaseID)
			if getErr != nil {
				return nil, getErr
			}
			return nil, apperror.NewFieldValidation("amount", "amount exceeds the outstanding balance").
				WithDetail("outstanding", cur.Debt().String())
		}
		return nil, err
	}
	return r.GetByID(ctx, purchaseID)
}
