package documents

// Kind names a document type in shared storage (line tables, cash-flow links).
type Kind string

const (
	KindQuote    Kind = "quote"
	KindOrder    Kind = "order"
	KindInvoice  Kind = "invoice"
	KindPurchase Kind = "purchase"
)
