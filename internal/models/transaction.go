package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction kinds. PURCHASE debits the wallet; every other kind credits it.
const (
	TxKindBonus    = "BONUS"
	TxKindPurchase = "PURCHASE"
	TxKindTopup    = "TOPUP"
	TxKindReward   = "REWARD"
	TxKindRefund   = "REFUND"
)

// Transaction statuses. Only COMPLETED transactions count toward the balance.
const (
	TxStatusPending   = "PENDING"
	TxStatusCompleted = "COMPLETED"
	TxStatusFailed    = "FAILED"
)

// Transaction is one immutable ledger entry. AmountPaise is always stored
// positive; the kind determines the signed effect on the wallet.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	AmountPaise int64     `json:"amount_paise"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SignedPaise returns the transaction's effect on the wallet balance.
func (t *Transaction) SignedPaise() int64 {
	if t.Kind == TxKindPurchase {
		return -t.AmountPaise
	}
	return t.AmountPaise
}

// ValidTxKind reports whether k is a known transaction kind.
func ValidTxKind(k string) bool {
	switch k {
	case TxKindBonus, TxKindPurchase, TxKindTopup, TxKindReward, TxKindRefund:
		return true
	}
	return false
}

// ValidTxStatus reports whether s is a known transaction status.
func ValidTxStatus(s string) bool {
	switch s {
	case TxStatusPending, TxStatusCompleted, TxStatusFailed:
		return true
	}
	return false
}
