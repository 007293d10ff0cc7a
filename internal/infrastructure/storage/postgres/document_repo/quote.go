package document_repo

import (
	"github.com/Masterminds/squirrel"

	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/quote"
	"storedesk/internal/infrastructure/storage/postgres"
)

// QuoteRepo implements quote.Repository.
type QuoteRepo struct {
	*BaseDocumentRepo[*quote.Quote]
}

var _ quote.Repository = (*QuoteRepo)(nil)

// NewQuoteRepo creates a new quote repository.
func NewQuoteRepo(txm *postgres.TxManager) *QuoteRepo {
	schema := docSchema{
		table:          "doc_quotes",
		entityName:     "quote",
		kind:           documents.KindQuote,
		partnerCol:     "customer_id",
		partnerNameCol: "customer_name",
		statusExpr:     "status",
		stats: statsSpec{
			total:   "final_amount",
			paid:    "0",
			debt:    "0",
			pending: squirrel.Eq{"status": []string{string(quote.StatusNew), string(quote.StatusSent)}},
		},
	}
	return &QuoteRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm, schema,
			postgres.ExtractDBColumns[quote.Quote](),
			func() *quote.Quote { return new(quote.Quote) },
			func(q *quote.Quote) *documents.Lines { return &q.Items },
		),
	}
}
