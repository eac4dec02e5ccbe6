// Package domain defines the core entities of the spendlens analytics
// service. These models are independent of external services and represent
// the canonical data structures used throughout the application.
package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Transactions
// ============================================================

// TxType distinguishes money leaving from money entering a wallet.
type TxType string

const (
	TxExpense TxType = "expense"
	TxIncome  TxType = "income"
)

// UnknownCategoryName labels transactions without a resolvable category.
const UnknownCategoryName = "Khác"

// UnknownWalletName labels transactions without a resolvable wallet.
const UnknownWalletName = "Ví khác"

// CategoryRef is a lightweight reference to a spending category.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// WalletRef is a lightweight reference to the wallet a transaction
// belongs to.
type WalletRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
}

// Transaction is a single financial record as delivered by the
// Transactions API. It is read-only to the analytics core.
type Transaction struct {
	ID       string       `json:"id"`
	Type     TxType       `json:"type"`
	Amount   Amount       `json:"amount"`
	Date     *time.Time   `json:"date,omitempty"`
	Category *CategoryRef `json:"category,omitempty"`
	Wallet   *WalletRef   `json:"wallet,omitempty"`
	Note     string       `json:"note,omitempty"`
}

// CategoryName returns the display name of the transaction's category,
// falling back to UnknownCategoryName when the reference is absent.
func (t Transaction) CategoryName() string {
	if t.Category == nil || t.Category.Name == "" {
		return UnknownCategoryName
	}
	return t.Category.Name
}

// WalletName returns the display name of the transaction's wallet,
// falling back to UnknownWalletName when the reference is absent.
func (t Transaction) WalletName() string {
	if t.Wallet == nil || t.Wallet.Name == "" {
		return UnknownWalletName
	}
	return t.Wallet.Name
}

// Amount is a currency-agnostic monetary value. Upstream payloads are not
// always well-formed, so decoding coerces anything non-numeric to zero
// instead of failing the whole batch.
type Amount float64

// UnmarshalJSON accepts a JSON number, a quoted numeric string, or null.
// Every other shape decodes to zero.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*a = 0
		return nil
	}
	*a = Amount(v)
	return nil
}

// Value returns the amount as a plain float64, guarding against NaN and
// infinities that could poison downstream sums.
func (a Amount) Value() float64 {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
