package validation

// DonationForm is the payload submitted by the donate page.
type DonationForm struct {
	// Amount is the text as typed, e.g. "12,34,567".
	Amount  string `json:"amount" validate:"required,amount"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,in_mobile"`
	Name    string `json:"name" validate:"required,min=3"`
	PAN     string `json:"pan" validate:"omitempty,pan"`
	Address string `json:"address" validate:"required,min=5"`
}

// NewForm returns the empty state a fresh donate page starts from.
func NewForm() DonationForm {
	return DonationForm{}
}

// Normalize applies the same clean-up the form inputs do while typing: amount
// is regrouped for display, phone keeps its first ten digits, PAN is
// upper-cased and cut to ten characters, and text fields are trimmed.
func (f DonationForm) Normalize() DonationForm {
	f.Amount = FormatAmountInput(f.Amount)
	f.Phone = NormalizePhone(f.Phone)
	f.PAN = NormalizePAN(f.PAN)
	f.Email = trim(f.Email)
	f.Name = trim(f.Name)
	f.Address = trim(f.Address)
	return f
}
