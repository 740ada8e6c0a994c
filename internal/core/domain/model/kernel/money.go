package kernel

import (
	"fmt"

	"geoshop/internal/pkg/errs"
	"geoshop/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency used for all catalog prices unless stated
// otherwise.
const DefaultCurrency = "CHF"

// ErrMoneyIsNotConstructed is returned when validating a zero-value Money.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney or ZeroMoney")

// Money is an immutable monetary amount in a single currency. Amounts are
// exact decimals, never floats, so pricing arithmetic does not accumulate
// rounding errors. Negative amounts are rejected: the platform never owes the
// client money.
type Money struct {
	amount   decimal.Decimal
	currency string
	guard    guard.ConstructorGuard
}

// NewMoney creates a Money value. The amount must not be negative and the
// currency must be a three-letter ISO code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%s is negative", amount))
	}
	if len(currency) != 3 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a three-letter ISO code", currency))
	}

	return Money{
		amount:   amount,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewMoneyFromFloat creates a Money value from a float amount. Intended for
// test fixtures and external inputs already rounded to currency precision.
func NewMoneyFromFloat(amount float64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) Money {
	m, _ := NewMoney(decimal.Zero, currency)
	return m
}

// Validate returns ErrMoneyIsNotConstructed for the zero value.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual reports whether two Money values have the same currency and amount.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Add returns the sum of two Money values. Mixing currencies is an error.
func (m Money) Add(other Money) (Money, error) {
	if err := m.checkSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Mul returns the amount multiplied by the given decimal factor.
func (m Money) Mul(factor decimal.Decimal) (Money, error) {
	return NewMoney(m.amount.Mul(factor), m.currency)
}

// Min returns the smaller of two Money values. Mixing currencies is an error.
func (m Money) Min(other Money) (Money, error) {
	if err := m.checkSameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.amount.LessThan(m.amount) {
		return other, nil
	}
	return m, nil
}

// String renders the amount at currency precision, e.g. "150.00 CHF".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

func (m Money) checkSameCurrency(other Money) error {
	if m.currency != other.currency {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%s and %s cannot be combined", m.currency, other.currency))
	}
	return nil
}
