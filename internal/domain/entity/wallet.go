package entity

import (
	"time"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"

	MethodPromptPay  = "promptpay"
	MethodTrueWallet = "truewallet"
	MethodBank       = "bank"

	MinDepositCoins    int64 = 50
	MinWithdrawalCoins int64 = 100
)

var PaymentMethods = []string{MethodPromptPay, MethodTrueWallet, MethodBank}

func ValidPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type Deposit struct {
	ID          string     `json:"id" firestore:"id"`
	UserID      string     `json:"user_id" firestore:"userId"`
	Amount      int64      `json:"amount" firestore:"amount"`
	Method      string     `json:"method" firestore:"method"`
	SlipURL     string     `json:"slip_url,omitempty" firestore:"slipUrl,omitempty"`
	Status      string     `json:"status" firestore:"status"`
	AdminNotes  string     `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy string     `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
}

type Withdrawal struct {
	ID           string     `json:"id" firestore:"id"`
	UserID       string     `json:"user_id" firestore:"userId"`
	Amount       int64      `json:"amount" firestore:"amount"`
	PayoutAmount string     `json:"payout_amount" firestore:"payoutAmount"`
	Method       string     `json:"method" firestore:"method"`
	Account      string     `json:"account" firestore:"account"`
	BankName     string     `json:"bank_name,omitempty" firestore:"bankName,omitempty"`
	Status       string     `json:"status" firestore:"status"`
	AdminNotes   string     `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy  string     `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt    time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time  `json:"updated_at" firestore:"updatedAt"`
}

const (
	LedgerWelcomeBonus = "welcome_bonus"
	LedgerPurchase     = "purchase"
	LedgerDeposit      = "deposit"
	LedgerWithdrawal   = "withdrawal"
	LedgerMembership   = "membership"
)

// LedgerEntry records one balance mutation. Its ID is the operation id.
type LedgerEntry struct {
	ID            string    `json:"id" firestore:"id"`
	UserID        string    `json:"user_id" firestore:"userId"`
	Type          string    `json:"type" firestore:"type"`
	Amount        int64     `json:"amount" firestore:"amount"`
	BalanceBefore int64     `json:"balance_before" firestore:"balanceBefore"`
	BalanceAfter  int64     `json:"balance_after" firestore:"balanceAfter"`
	Reference     string    `json:"reference,omitempty" firestore:"reference,omitempty"`
	Description   string    `json:"description" firestore:"description"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}

type InsuranceOption struct {
	Amount int64  `json:"amount" yaml:"amount"`
	Days   int    `json:"days" yaml:"days"`
	Label  string `json:"label" yaml:"label"`
}

type MembershipTier struct {
	Name  string `json:"name" yaml:"name"`
	Price int64  `json:"price" yaml:"price"`
	Days  int    `json:"days" yaml:"days"`
}
