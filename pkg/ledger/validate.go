package ledger

import (
	"strings"

	"github.com/recouvro/recouvro/pkg/apperrors"
)

// Validate checks a create request. Every failure names the offending field.
// Amount violations are rejected, never clamped.
func (p *CreateParams) Validate() error {
	if strings.TrimSpace(p.KompassID) == "" {
		return apperrors.Required("kompassId")
	}
	if strings.TrimSpace(p.ClientName) == "" {
		return apperrors.Required("clientName")
	}
	if p.PaymentMethod == "" {
		return apperrors.Required("paymentMethod")
	}
	if !ValidPaymentMethod(p.PaymentMethod) {
		return apperrors.Validation("paymentMethod", "must be one of Cash, Bank Transfer, Check, Mobile Money")
	}
	if strings.TrimSpace(p.BankName) == "" {
		return apperrors.Required("bankName")
	}
	if strings.TrimSpace(p.EditionYear) == "" {
		return apperrors.Required("editionYear")
	}
	if p.IsFullPayment == nil {
		return apperrors.Required("isFullPayment")
	}
	if p.AmountDue == nil {
		return apperrors.Required("amountDue")
	}
	if *p.AmountDue < 0 {
		return apperrors.Validation("amountDue", "must not be negative")
	}
	if p.AmountPaid == nil {
		return apperrors.Required("amountPaid")
	}
	if *p.AmountPaid < 0 {
		return apperrors.Validation("amountPaid", "must not be negative")
	}
	if p.PaymentTotalAmount != nil && *p.PaymentTotalAmount < 0 {
		return apperrors.Validation("paymentTotalAmount", "must not be negative")
	}
	if strings.TrimSpace(p.AgentName) == "" {
		return apperrors.Required("agentName")
	}
	return nil
}

// Validate checks the provided fields of a partial update. Omitted fields
// are not checked; provided ones obey the same rules as on create.
func (p *UpdateParams) Validate() error {
	if p.KompassID != nil && strings.TrimSpace(*p.KompassID) == "" {
		return apperrors.Validation("kompassId", "must not be empty")
	}
	if p.ClientName != nil && strings.TrimSpace(*p.ClientName) == "" {
		return apperrors.Validation("clientName", "must not be empty")
	}
	if p.PaymentMethod != nil && !ValidPaymentMethod(*p.PaymentMethod) {
		return apperrors.Validation("paymentMethod", "must be one of Cash, Bank Transfer, Check, Mobile Money")
	}
	if p.BankName != nil && strings.TrimSpace(*p.BankName) == "" {
		return apperrors.Validation("bankName", "must not be empty")
	}
	if p.EditionYear != nil && strings.TrimSpace(*p.EditionYear) == "" {
		return apperrors.Validation("editionYear", "must not be empty")
	}
	if p.AmountDue != nil && *p.AmountDue < 0 {
		return apperrors.Validation("amountDue", "must not be negative")
	}
	if p.AmountPaid != nil && *p.AmountPaid < 0 {
		return apperrors.Validation("amountPaid", "must not be negative")
	}
	if p.PaymentTotalAmount != nil && *p.PaymentTotalAmount < 0 {
		return apperrors.Validation("paymentTotalAmount", "must not be negative")
	}
	if p.AgentName != nil && strings.TrimSpace(*p.AgentName) == "" {
		return apperrors.Validation("agentName", "must not be empty")
	}
	return nil
}

// Empty reports whether the update provides no fields at all.
func (p *UpdateParams) Empty() bool {
	return p.KompassID == nil && p.ClientName == nil && p.PaymentMethod == nil &&
		p.BankName == nil && p.EditionYear == nil && p.InvoiceDate == nil &&
		p.IsFullPayment == nil && p.AmountDue == nil && p.AmountPaid == nil &&
		p.PaymentTotalAmount == nil && p.AgentName == nil && p.PaymentDate == nil
}
