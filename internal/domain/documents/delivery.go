package documents

import (
	"strings"

	"storedesk/internal/core/apperror"
	"storedesk/internal/core/types"
)

// Delivery is the "deliver to customer" variant of an order's fulfilment.
// A nil *Delivery means the goods are handed over at the counter, so the
// address and phone requirements exist only on this type.
type Delivery struct {
	Address string      `json:"address"`
	Phone   string      `json:"phone"`
	ShipFee types.Money `json:"shipFee"`
}

// Validate checks the delivery variant.
func (d *Delivery) Validate() error {
	if d == nil {
		return nil
	}
	if strings.TrimSpace(d.Address) == "" {
		return apperror.NewFieldValidation("deliveryInfo.address", "delivery address is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return apperror.NewFieldValidation("deliveryInfo.phone", "delivery phone is required")
	}
	if d.ShipFee.IsNegative() {
		return apperror.NewFieldValidation("deliveryInfo.shipFee", "ship fee must not be negative")
	}
	return nil
}

// Fee returns the ship fee, zero when not delivering.
func (d *Delivery) Fee() types.Money {
	if d == nil {
		return types.Zero()
	}
	return d.ShipFee
}

// Clone returns an independent copy.
func (d *Delivery) Clone() *Delivery {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
