package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recouvro/recouvro/pkg/apperrors"
)

func boolPtr(b bool) *bool                     { return &b }
func floatPtr(f float64) *float64              { return &f }
func strPtr(s string) *string                  { return &s }
func methodPtr(m PaymentMethod) *PaymentMethod { return &m }

func validCreateParams() *CreateParams {
	return &CreateParams{
		KompassID:     "K1",
		ClientName:    "Acme SARL",
		PaymentMethod: PaymentMethodCash,
		BankName:      "BNC",
		EditionYear:   "2024",
		IsFullPayment: boolPtr(false),
		AmountDue:     floatPtr(1000),
		AmountPaid:    floatPtr(400),
		AgentName:     "J. Kouassi",
	}
}

func TestCreateParams_Valid(t *testing.T) {
	assert.NoError(t, validCreateParams().Validate())
}

func TestCreateParams_ZeroAmountsAllowed(t *testing.T) {
	p := validCreateParams()
	p.AmountDue = floatPtr(0)
	p.AmountPaid = floatPtr(0)
	assert.NoError(t, p.Validate(), "explicit zeros are valid, only absence is not")
}

func TestCreateParams_MissingFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*CreateParams)
	}{
		{"kompassId", func(p *CreateParams) { p.KompassID = "" }},
		{"clientName", func(p *CreateParams) { p.ClientName = "  " }},
		{"paymentMethod", func(p *CreateParams) { p.PaymentMethod = "" }},
		{"bankName", func(p *CreateParams) { p.BankName = "" }},
		{"editionYear", func(p *CreateParams) { p.EditionYear = "" }},
		{"isFullPayment", func(p *CreateParams) { p.IsFullPayment = nil }},
		{"amountDue", func(p *CreateParams) { p.AmountDue = nil }},
		{"amountPaid", func(p *CreateParams) { p.AmountPaid = nil }},
		{"agentName", func(p *CreateParams) { p.AgentName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := validCreateParams()
			tt.mutate(p)
			err := p.Validate()
			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field, "error must name the offending field")
		})
	}
}

func TestCreateParams_NegativeAmountsRejected(t *testing.T) {
	p := validCreateParams()
	p.AmountDue = floatPtr(-1)
	err := p.Validate()
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "amountDue", ve.Field)

	p = validCreateParams()
	p.AmountPaid = floatPtr(-0.01)
	require.Error(t, p.Validate())

	p = validCreateParams()
	p.PaymentTotalAmount = floatPtr(-5)
	require.Error(t, p.Validate())
}

func TestCreateParams_UnknownPaymentMethod(t *testing.T) {
	p := validCreateParams()
	p.PaymentMethod = "Barter"
	err := p.Validate()
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "paymentMethod", ve.Field)
}

func TestUpdateParams_Validate(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		p := &UpdateParams{}
		assert.NoError(t, p.Validate())
		assert.True(t, p.Empty())
	})

	t.Run("zero amountPaid is a provided value", func(t *testing.T) {
		p := &UpdateParams{AmountPaid: floatPtr(0)}
		assert.NoError(t, p.Validate())
		assert.False(t, p.Empty())
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		p := &UpdateParams{AmountDue: floatPtr(-10)}
		assert.Error(t, p.Validate())
	})

	t.Run("blank provided field rejected", func(t *testing.T) {
		p := &UpdateParams{ClientName: strPtr("  ")}
		assert.Error(t, p.Validate())
	})

	t.Run("bad payment method rejected", func(t *testing.T) {
		p := &UpdateParams{PaymentMethod: methodPtr("IOU")}
		assert.Error(t, p.Validate())
	})
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodMobileMoney} {
		assert.True(t, ValidPaymentMethod(m))
	}
	assert.False(t, ValidPaymentMethod("Crypto"))
	assert.False(t, ValidPaymentMethod(""))
}
