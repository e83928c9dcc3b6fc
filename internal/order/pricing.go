package order

import (
	"github.com/fekuna/wlpl-service/internal/model"
	"github.com/fekuna/wlpl-service/internal/order/dto"
	"github.com/shopspring/decimal"
)

type Pricing struct {
	ServiceFeeRate decimal.Decimal
	MinServiceFee  decimal.Decimal
	DeliveryFee    decimal.Decimal
}

func NewPricing(rate, minFee, deliveryFee float64) Pricing {
	return Pricing{
		ServiceFeeRate: decimal.NewFromFloat(rate),
		MinServiceFee:  decimal.NewFromFloat(minFee),
		DeliveryFee:    decimal.NewFromFloat(deliveryFee),
	}
}

// Quote prices items. Amounts are rounded to cents; the service fee never drops
// below MinServiceFee.
func (p Pricing) Quote(items []model.OrderItem, tip decimal.Decimal) dto.Quote {
	subtotal := decimal.Zero
	count := 0
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromFloat(it.Quantity)))
		count++
	}
	subtotal = subtotal.Round(2)

	fee := subtotal.Mul(p.ServiceFeeRate).Round(2)
	if fee.LessThan(p.MinServiceFee) {
		fee = p.MinServiceFee
	}
	if tip.IsNegative() {
		tip = decimal.Zero
	}
	tip = tip.Round(2)

	return dto.Quote{
		TotalItems:  count,
		Subtotal:    subtotal,
		ServiceFee:  fee,
		DeliveryFee: p.DeliveryFee,
		Tip:         tip,
		Total:       subtotal.Add(fee).Add(p.DeliveryFee).Add(tip),
	}
}
