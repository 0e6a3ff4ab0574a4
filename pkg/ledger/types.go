package ledger

import "time"

// PaymentMethod enumerates the accepted payment channels. Wire values match
// the historical API.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCheck        PaymentMethod = "Check"
	PaymentMethodMobileMoney  PaymentMethod = "Mobile Money"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodMobileMoney:
		return true
	}
	return false
}

// Recovery is one payment-tracking ledger entry tying a client payment to a
// company (kompass id) and a yearly edition. The outstanding balance is
// derived, never stored: see Balance.
type Recovery struct {
	ID                 string        `json:"id"`
	KompassID          string        `json:"kompassId"`
	ClientName         string        `json:"clientName"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	BankName           string        `json:"bankName"`
	EditionYear        string        `json:"editionYear"`
	InvoiceDate        *time.Time    `json:"invoiceDate,omitempty"`
	IsFullPayment      bool          `json:"isFullPayment"`
	AmountDue          float64       `json:"amountDue"`
	AmountPaid         float64       `json:"amountPaid"`
	PaymentTotalAmount *float64      `json:"paymentTotalAmount,omitempty"`
	AgentName          string        `json:"agentName"`
	PaymentDate        time.Time     `json:"paymentDate"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// CreateParams carries the fields of a new recovery. Required numeric and
// boolean fields are pointers so that an explicit zero is distinguishable
// from an omitted field.
type CreateParams struct {
	KompassID          string        `json:"kompassId"`
	ClientName         string        `json:"clientName"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	BankName           string        `json:"bankName"`
	EditionYear        string        `json:"editionYear"`
	InvoiceDate        *time.Time    `json:"invoiceDate"`
	IsFullPayment      *bool         `json:"isFullPayment"`
	AmountDue          *float64      `json:"amountDue"`
	AmountPaid         *float64      `json:"amountPaid"`
	PaymentTotalAmount *float64      `json:"paymentTotalAmount"`
	AgentName          string        `json:"agentName"`
	PaymentDate        *time.Time    `json:"paymentDate"`
}

// UpdateParams carries a partial update. Every field is presence-typed: nil
// keeps the previous value, a non-nil pointer replaces it, including with a
// zero value such as amountPaid = 0.
type UpdateParams struct {
	KompassID          *string        `json:"kompassId"`
	ClientName         *string        `json:"clientName"`
	PaymentMethod      *PaymentMethod `json:"paymentMethod"`
	BankName           *string        `json:"bankName"`
	EditionYear        *string        `json:"editionYear"`
	InvoiceDate        *time.Time     `json:"invoiceDate"`
	IsFullPayment      *bool          `json:"isFullPayment"`
	AmountDue          *float64       `json:"amountDue"`
	AmountPaid         *float64       `json:"amountPaid"`
	PaymentTotalAmount *float64       `json:"paymentTotalAmount"`
	AgentName          *string        `json:"agentName"`
	PaymentDate        *time.Time     `json:"paymentDate"`
}

// Filter selects recoveries by company and optionally by edition year.
// Empty fields match everything.
type Filter struct {
	KompassID   string
	EditionYear string
}

// Totals aggregates a set of recoveries.
type Totals struct {
	TotalDue     float64 `json:"totalDue"`
	TotalPaid    float64 `json:"totalPaid"`
	TotalBalance float64 `json:"totalBalance"`
}
