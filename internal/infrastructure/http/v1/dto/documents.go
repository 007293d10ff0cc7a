package dto

import (
	"time"

	"storedesk/internal/core/id"
	"storedesk/internal/core/types"
	"storedesk/internal/domain/conversion"
	"storedesk/internal/domain/documents"
	"storedesk/internal/domain/documents/invoice"
	"storedesk/internal/domain/documents/order"
	"storedesk/internal/domain/documents/purchase"
	"storedesk/internal/domain/documents/quote"
	"storedesk/internal/domain/payment"
)

// --- Shared parts ---

// LineRequest is one item of a document body.
type LineRequest struct {
	ProductID string      `json:"productId" binding:"required,uuid"`
	Name      string      `json:"name"`
	Unit      string      `json:"unit"`
	Quantity  int64       `json:"quantity"`
	Price     types.Money `json:"price"`
}

// toLines converts request lines. Quantity and price bounds are checked by
// the domain so the error names the offending line.
func toLines(in []LineRequest) documents.Lines {
	if in == nil {
		return nil
	}
	lines := make(documents.Lines, 0, len(in))
	for _, l := range in {
		productID, _ := id.Parse(l.ProductID)
		lines = append(lines, documents.LineItem{
			ProductID: productID,
			Name:      l.Name,
			Unit:      l.Unit,
			Quantity:  l.Quantity,
			Price:     l.Price,
		})
	}
	return lines
}

// CustomerRequest references a registered customer or carries a walk-in snapshot.
type CustomerRequest struct {
	CustomerID      string `json:"customerId" binding:"omitempty,uuid"`
	CustomerName    string `json:"customerName" binding:"max=255"`
	CustomerPhone   string `json:"customerPhone" binding:"phone"`
	CustomerAddress string `json:"customerAddress" binding:"max=500"`
}

func (r CustomerRequest) toRef() documents.CustomerRef {
	ref := documents.CustomerRef{
		Name:    r.CustomerName,
		Phone:   r.CustomerPhone,
		Address: r.CustomerAddress,
	}
	if r.CustomerID != "" {
		customerID, _ := id.Parse(r.CustomerID)
		ref.CustomerID = &customerID
	}
	return ref
}

func (r CustomerRequest) isEmpty() bool {
	return r == CustomerRequest{}
}

// DeliveryInfo is the wire shape of an order's fulfilment.
// Address and phone are required only when IsDelivery is set.
type DeliveryInfo struct {
	IsDelivery bool        `json:"isDelivery"`
	Address    string      `json:"address" binding:"required_if=IsDelivery true,max=500"`
	Phone      string      `json:"phone" binding:"required_if=IsDelivery true,phone"`
	ShipFee    types.Money `json:"shipFee"`
}

// ToDelivery returns nil for counter pickup.
func (d *DeliveryInfo) ToDelivery() *documents.Delivery {
	if d == nil || !d.IsDelivery {
		return nil
	}
	return &documents.Delivery{
		Address: d.Address,
		Phone:   d.Phone,
		ShipFee: d.ShipFee,
	}
}

// NewDeliveryInfo maps the domain variant back to the wire shape.
func NewDeliveryInfo(d *documents.Delivery) *DeliveryInfo {
	if d == nil {
		return nil
	}
	return &DeliveryInfo{
		IsDelivery: true,
		Address:    d.Address,
		Phone:      d.Phone,
		ShipFee:    d.ShipFee,
	}
}

// --- Quotes ---

// CreateQuoteRequest is the request body for creating a quote.
type CreateQuoteRequest struct {
	CustomerRequest
	Date           *time.Time    `json:"date"`
	Items          []LineRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount types.Money   `json:"discountAmount"`
	ExpiryDate     *time.Time    `json:"expiryDate"`
	Note           string        `json:"note"`
}

// ToInput converts the request to a service input.
func (r *CreateQuoteRequest) ToInput() quote.CreateInput {
	return quote.CreateInput{
		Date:           r.Date,
		Customer:       r.CustomerRequest.toRef(),
		Items:          toLines(r.Items),
		DiscountAmount: r.DiscountAmount,
		ExpiryDate:     r.ExpiryDate,
		Note:           r.Note,
	}
}

// UpdateQuoteRequest is a partial update: absent fields are left as stored.
type UpdateQuoteRequest struct {
	CustomerRequest
	Version        int           `json:"version" binding:"gte=0"`
	Items          []LineRequest `json:"items" binding:"omitempty,min=1,dive"`
	DiscountAmount *types.Money  `json:"discountAmount"`
	ExpiryDate     *time.Time    `json:"expiryDate"`
	Note           *string       `json:"note"`
	Status         *quote.Status `json:"status"`
}

// ToInput converts the request to a service input.
func (r *UpdateQuoteRequest) ToInput() quote.UpdateInput {
	in := quote.UpdateInput{
		Version:        r.Version,
		Items:          toLines(r.Items),
		DiscountAmount: r.DiscountAmount,
		ExpiryDate:     r.ExpiryDate,
		Note:           r.Note,
		Status:         r.Status,
	}
	if !r.CustomerRequest.isEmpty() {
		ref := r.CustomerRequest.toRef()
		in.Customer = &ref
	}
	return in
}

// QuoteConversionResponse is returned by POST /quotes/:id/to-order.
type QuoteConversionResponse struct {
	Order *OrderResponse `json:"order"`
	Quote *quote.Quote   `json:"quote"`
}

// NewQuoteConversionResponse maps a conversion result.
func NewQuoteConversionResponse(r *conversion.QuoteConversion) QuoteConversionResponse {
	return QuoteConversionResponse{
		Order: NewOrderResponse(r.Order),
		Quote: r.Quote,
	}
}

// --- Orders ---

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	CustomerRequest
	Date          *time.Time    `json:"date"`
	Items         []LineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentAmount types.Money   `json:"paymentAmount"`
	DeliveryInfo  *DeliveryInfo `json:"deliveryInfo"`
	Note          string        `json:"note"`
}

// ToInput converts the request to a service input.
func (r *CreateOrderRequest) ToInput() order.CreateInput {
	return order.CreateInput{
		Date:          r.Date,
		Customer:      r.CustomerRequest.toRef(),
		Items:         toLines(r.Items),
		PaymentAmount: r.PaymentAmount,
		Delivery:      r.DeliveryInfo.ToDelivery(),
		Note:          r.Note,
	}
}

// UpdateOrderRequest is a partial update. A present deliveryInfo replaces
// the stored one; isDelivery=false switches to counter pickup.
type UpdateOrderRequest struct {
	CustomerRequest
	Version       int           `json:"version" binding:"gte=0"`
	Items         []LineRequest `json:"items" binding:"omitempty,min=1,dive"`
	PaymentAmount *types.Money  `json:"paymentAmount"`
	DeliveryInfo  *DeliveryInfo `json:"deliveryInfo"`
	Note          *string       `json:"note"`
	Status        *order.Status `json:"status"`
}

// ToInput converts the request to a service input.
func (r *UpdateOrderRequest) ToInput() order.UpdateInput {
	in := order.UpdateInput{
		Version:       r.Version,
		Items:         toLines(r.Items),
		PaymentAmount: r.PaymentAmount,
		Note:          r.Note,
		Status:        r.Status,
	}
	if !r.CustomerRequest.isEmpty() {
		ref := r.CustomerRequest.toRef()
		in.Customer = &ref
	}
	if r.DeliveryInfo != nil {
		in.SetDelivery = true
		in.Delivery = r.DeliveryInfo.ToDelivery()
	}
	return in
}

// OrderResponse renders deliveryInfo in its wire shape.
type OrderResponse struct {
	*order.Order
	DeliveryInfo *DeliveryInfo `json:"deliveryInfo,omitempty"`
}

// NewOrderResponse maps an order.
func NewOrderResponse(o *order.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{Order: o, DeliveryInfo: NewDeliveryInfo(o.Delivery)}
}

// ExportOrderRequest is the body of POST /orders/:id/to-invoice.
type ExportOrderRequest struct {
	PaymentAmount types.Money `json:"paymentAmount"`
	Note          string      `json:"note"`
}

// ToInput converts the request to a service input.
func (r *ExportOrderRequest) ToInput() conversion.ExportInput {
	return conversion.ExportInput{
		PaymentAmount: r.PaymentAmount,
		Note:          r.Note,
	}
}

// InvoiceConversionResponse is returned by POST /orders/:id/to-invoice.
type InvoiceConversionResponse struct {
	Invoice      *InvoiceResponse `json:"invoice"`
	Order        *OrderResponse   `json:"order"`
	ChangeAmount types.Money      `json:"changeAmount"`
	CustomerDebt *types.Money     `json:"customerDebt,omitempty"`
}

// NewInvoiceConversionResponse maps an export result.
func NewInvoiceConversionResponse(r *conversion.InvoiceConversion) InvoiceConversionResponse {
	return InvoiceConversionResponse{
		Invoice:      NewInvoiceResponse(r.Invoice),
		Order:        NewOrderResponse(r.Order),
		ChangeAmount: r.ChangeAmount,
		CustomerDebt: r.CustomerDebt,
	}
}

// --- Invoices ---

// InvoiceResponse adds the derived balance and payment state.
type InvoiceResponse struct {
	*invoice.Invoice
	DeliveryInfo  *DeliveryInfo          `json:"deliveryInfo,omitempty"`
	Debt          types.Money            `json:"debt"`
	PaymentStatus documents.PaymentState `json:"paymentStatus"`
}

// NewInvoiceResponse maps an invoice.
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	return &InvoiceResponse{
		Invoice:       inv,
		DeliveryInfo:  NewDeliveryInfo(inv.Delivery),
		Debt:          inv.Debt(),
		PaymentStatus: inv.PaymentState(),
	}
}

// PaymentRequest is the body of the payment endpoints.
type PaymentRequest struct {
	Amount     types.Money `json:"amount"`
	UpdateDebt bool        `json:"updateDebt"`
	Note       string      `json:"note"`
}

// ToInput converts the request to a service input.
func (r *PaymentRequest) ToInput() payment.Input {
	return payment.Input{
		Amount:     r.Amount,
		UpdateDebt: r.UpdateDebt,
		Note:       r.Note,
	}
}

// InvoicePaymentResponse is returned by POST /invoices/:id/payment.
type InvoicePaymentResponse struct {
	Invoice      *InvoiceResponse `json:"invoice"`
	CustomerDebt *types.Money     `json:"customerDebt,omitempty"`
}

// NewInvoicePaymentResponse maps a payment result.
func NewInvoicePaymentResponse(r *payment.InvoicePayment) InvoicePaymentResponse {
	return InvoicePaymentResponse{
		Invoice:      NewInvoiceResponse(r.Invoice),
		CustomerDebt: r.CustomerDebt,
	}
}

// --- Purchases ---

// CreatePurchaseRequest is the request body for recording a goods receipt.
type CreatePurchaseRequest struct {
	SupplierID  string        `json:"supplierId" binding:"required,uuid"`
	IssueDate   *time.Time    `json:"issueDate"`
	Items       []LineRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount *types.Money  `json:"totalAmount"`
	PaidAmount  types.Money   `json:"paidAmount"`
	Note        string        `json:"note"`
}

// ToInput converts the request to a service input.
func (r *CreatePurchaseRequest) ToInput() purchase.CreateInput {
	supplierID, _ := id.Parse(r.SupplierID)
	return purchase.CreateInput{
		SupplierID:  supplierID,
		IssueDate:   r.IssueDate,
		Items:       toLines(r.Items),
		TotalAmount: r.TotalAmount,
		PaidAmount:  r.PaidAmount,
		Note:        r.Note,
	}
}

// PurchaseResponse adds the derived balance and payment state.
type PurchaseResponse struct {
	*purchase.Purchase
	Debt          types.Money            `json:"debt"`
	PaymentStatus documents.PaymentState `json:"paymentStatus"`
}

// NewPurchaseResponse maps a purchase.
func NewPurchaseResponse(p *purchase.Purchase) *PurchaseResponse {
	if p == nil {
		return nil
	}
	return &PurchaseResponse{
		Purchase:      p,
		Debt:          p.Debt(),
		PaymentStatus: p.PaymentState(),
	}
}

// PurchasePaymentResponse is returned by POST /purchases/:id/payment.
type PurchasePaymentResponse struct {
	Purchase     *PurchaseResponse `json:"purchase"`
	SupplierDebt *types.Money      `json:"supplierDebt,omitempty"`
}

// NewPurchasePaymentResponse maps a payment result.
func NewPurchasePaymentResponse(r *payment.PurchasePayment) PurchasePaymentResponse {
	return PurchasePaymentResponse{
		Purchase:     NewPurchaseResponse(r.Purchase),
		SupplierDebt: r.SupplierDebt,
	}
}
