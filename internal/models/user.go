package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account created on first external-identity sign-in. The cached
// WalletBalancePaise is a materialized view over COMPLETED transactions; the
// ledger is the source of truth. BonusCredited only ever moves false -> true.
type User struct {
	ID                 uuid.UUID  `json:"id"`
	FirebaseUID        string     `json:"firebase_uid"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	PasswordHash       *string    `json:"-"`
	WalletBalancePaise int64      `json:"wallet_balance_paise"`
	BonusCredited      bool       `json:"bonus_credited"`
	StreakCount        int        `json:"streak_count"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
