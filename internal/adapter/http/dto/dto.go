package dto

import (
	"time"

	"payulot/internal/core/domain"
	"payulot/internal/core/ports"
)

// AddFundsRequest is the request body for treasury funding. Exactly one of
// wallet_id and user_id identifies the recipient. Amounts are decimal
// dollars inbound.
type AddFundsRequest struct {
	TreasuryWalletID string  `json:"treasury_wallet_id" binding:"required,uuid"`
	WalletID         string  `json:"wallet_id" binding:"omitempty,uuid"`
	UserID           string  `json:"user_id" binding:"omitempty,uuid"`
	Amount           float64 `json:"amount" binding:"required"`
	Note             string  `json:"note" binding:"max=500"`
	AddedBy          string  `json:"added_by" binding:"required,uuid"`
}

// AdjustRequest is the request body for a direct treasury correction.
// Positive amounts credit the treasury, negative amounts debit it.
type AdjustRequest struct {
	TreasuryWalletID string  `json:"treasury_wallet_id" binding:"required,uuid"`
	Amount           float64 `json:"amount" binding:"required"`
	Note             string  `json:"note" binding:"required,max=500"`
}

// ChargeRequest is the request body for a vendor passport charge.
type ChargeRequest struct {
	PassportID string  `json:"passport_id" binding:"required,safe_id,max=32"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Note       string  `json:"note" binding:"max=500"`
}

// PayoutCreateRequest is the request body for a cardholder payout request.
type PayoutCreateRequest struct {
	BankAccountID string  `json:"bank_account_id" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// CompleteTransferRequest carries the bank reference recorded on completion.
type CompleteTransferRequest struct {
	BankReference string `json:"bank_reference" binding:"required,min=4,max=100"`
}

// RejectTransferRequest carries the reason recorded on rejection.
type RejectTransferRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// BankAccountCreateRequest is the request body for saving a payout
// destination.
type BankAccountCreateRequest struct {
	HolderName    string `json:"holder_name" binding:"required,min=1,max=100"`
	BankName      string `json:"bank_name" binding:"required,min=1,max=100"`
	AccountNumber string `json:"account_number" binding:"required,numeric,min=4,max=20"`
	RoutingNumber string `json:"routing_number" binding:"required,numeric,len=9"`
}

// PassportIssueRequest is the request body for issuing a passport.
type PassportIssueRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// TransactionResponse is the outward shape of a ledger entry.
type TransactionResponse struct {
	ID          string  `json:"id"`
	WalletID    string  `json:"wallet_id"`
	UserID      string  `json:"user_id"`
	EntryType   string  `json:"type"`
	AmountCents int64   `json:"amount_cents"`
	Note        string  `json:"note"`
	Category    string  `json:"category"`
	VendorID    *string `json:"vendor_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// MovePairResponse carries the matched debit/credit pair written for a
// movement.
type MovePairResponse struct {
	Debit  TransactionResponse `json:"debit"`
	Credit TransactionResponse `json:"credit"`
}

// TransferResponse is the outward shape of a payout transfer.
type TransferResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	BankAccountID string  `json:"bank_account_id"`
	AmountCents   int64   `json:"amount_cents"`
	Status        string  `json:"status"`
	RequestedAt   string  `json:"requested_at"`
	ClaimedBy     *string `json:"claimed_by,omitempty"`
	CompletedAt   *string `json:"completed_at,omitempty"`
	BankReference *string `json:"bank_reference,omitempty"`
	RejectReason  *string `json:"reject_reason,omitempty"`
}

// TransferListResponse is the paginated transfer listing payload.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Total int64              `json:"total"`
}

// TransactionListResponse is the paginated ledger listing payload.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int64                 `json:"total"`
}

// BankAccountResponse exposes a saved payout destination with the account
// number masked to its last four digits.
type BankAccountResponse struct {
	ID            string `json:"id"`
	HolderName    string `json:"holder_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	CreatedAt     string `json:"created_at"`
}

// ReportResponse is the aggregate ledger report payload.
type ReportResponse struct {
	TotalEntries     int64 `json:"total_entries"`
	DebitEntries     int64 `json:"debit_entries"`
	CreditEntries    int64 `json:"credit_entries"`
	DebitCents       int64 `json:"debit_cents"`
	CreditCents      int64 `json:"credit_cents"`
	TreasuryFunded   int64 `json:"treasury_funded_cents"`
	VendorCharged    int64 `json:"vendor_charged_cents"`
	BankTransferred  int64 `json:"bank_transferred_cents"`
	TreasuryAdjusted int64 `json:"treasury_adjusted_cents"`
}

// FromTransaction converts a ledger entry to its outward shape.
func FromTransaction(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		WalletID:    t.WalletID.String(),
		UserID:      t.UserID.String(),
		EntryType:   string(t.EntryType),
		AmountCents: t.AmountCents,
		Note:        t.Note,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.VendorID != nil {
		s := t.VendorID.String()
		resp.VendorID = &s
	}
	return resp
}

// FromTransactions converts a ledger entry slice.
func FromTransactions(txns []domain.Transaction) []TransactionResponse {
	items := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, FromTransaction(&txns[i]))
	}
	return items
}

// FromTransfer converts a payout transfer to its outward shape.
func FromTransfer(t *domain.Transfer) TransferResponse {
	resp := TransferResponse{
		ID:            t.ID.String(),
		UserID:        t.UserID.String(),
		BankAccountID: t.BankAccountID.String(),
		AmountCents:   t.AmountCents,
		Status:        string(t.Status),
		RequestedAt:   t.RequestedAt.Format(time.RFC3339),
		BankReference: t.BankReference,
		RejectReason:  t.RejectReason,
	}
	if t.ClaimedBy != nil {
		s := t.ClaimedBy.String()
		resp.ClaimedBy = &s
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// FromTransfers converts a transfer slice.
func FromTransfers(transfers []domain.Transfer) []TransferResponse {
	items := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		items = append(items, FromTransfer(&transfers[i]))
	}
	return items
}

// FromBankAccount converts a bank account to its masked outward shape.
func FromBankAccount(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID.String(),
		HolderName:    a.HolderName,
		BankName:      a.BankName,
		AccountNumber: a.MaskedAccountNumber(),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

// FromReport converts the aggregate ledger report.
func FromReport(r *ports.LedgerReport) ReportResponse {
	return ReportResponse{
		TotalEntries:     r.TotalEntries,
		DebitEntries:     r.DebitEntries,
		CreditEntries:    r.CreditEntries,
		DebitCents:       r.DebitCents,
		CreditCents:      r.CreditCents,
		TreasuryFunded:   r.TreasuryFunded,
		VendorCharged:    r.VendorCharged,
		BankTransferred:  r.BankTransferred,
		TreasuryAdjusted: r.TreasuryAdjusted,
	}
}
