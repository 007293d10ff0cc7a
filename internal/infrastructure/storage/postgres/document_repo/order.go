package document_repo

import (
	"github.com/Masterminds/squirrel"

	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/infrastructure/storage/postgres"
)

// OrderRepo implements order.Repository.
type OrderRepo struct {
	*BaseDocumentRepo[*order.Order]
}

var _ order.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	schema := docSchema{
		table:          "doc_orders",
		entityName:     "order",
		kind:           documents.KindOrder,
		partnerCol:     "customer_id",
		partnerNameCol: "customer_name",
		statusExpr:     "status",
		stats: statsSpec{
			total:   "total_amount",
			paid:    "payment_amount",
			debt:    "0",
			pending: squirrel.Eq{"status": string(order.StatusNew)},
		},
	}
	return &OrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm, schema,
			postgres.ExtractDBColumns[order.Order](),
			func() *order.Order { return new(order.Order) },
			func(o *order.Order) *documents.Lines { return &o.Items },
		),
	}
}
