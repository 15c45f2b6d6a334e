package partner

import (
	"github.com/bizcentral/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionRule maps a product category to a commission rate percentage
type CommissionRule struct {
	Category    string          `json:"category"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

// Partner represents a referral partner who earns commission on delivered
// orders. The commission rate matrix is denormalized onto the partner record
// and read inside the accrual transaction.
type Partner struct {
	shared.BaseAggregateRoot
	Name            string           `gorm:"type:varchar(200);not null"`
	LedgerAccountID *uuid.UUID       `gorm:"type:uuid;index"`
	CommissionRates []CommissionRule `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Partner) TableName() string {
	return "partners"
}

// NewPartner creates a new partner
func NewPartner(name string, rates []CommissionRule) (*Partner, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PARTNER_NAME", "Partner name cannot be empty")
	}
	for _, rule := range rates {
		if rule.RatePercent.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COMMISSION_RATE", "Commission rate cannot be negative")
		}
	}

	return &Partner{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		CommissionRates:   rates,
	}, nil
}

// RateFor returns the commission rate percentage for a product category.
// A missing category rule contributes zero; it is never an error.
func (p *Partner) RateFor(category string) decimal.Decimal {
	for _, rule := range p.CommissionRates {
		if rule.Category == category {
			return rule.RatePercent
		}
	}
	return decimal.Zero
}

// CommissionOn computes the commission for one line:
// price x quantity x rate%.
func (p *Partner) CommissionOn(category string, unitPrice, quantity decimal.Decimal) decimal.Decimal {
	rate := p.RateFor(category)
	if rate.IsZero() {
		return decimal.Zero
	}
	return unitPrice.Mul(quantity).Mul(rate).Div(decimal.NewFromInt(100))
}
