package parties

// PartyInput carries an inbound party payload. Older clients used alias
// field names (party_name, phone_no, opening_balance); the aliases are
// resolved here, once, and never consulted again downstream.
type PartyInput struct {
	Name           string   `json:"name"`
	PartyName      string   `json:"party_name"`
	Type           string   `json:"type"`
	Phone          string   `json:"phone"`
	PhoneNo        string   `json:"phone_no"`
	Email          string   `json:"email"`
	Address        string   `json:"address"`
	GSTNumber      string   `json:"gst_number"`
	Balance        *float64 `json:"balance"`
	OpeningBalance *float64 `json:"opening_balance"`
	CreditLimit    float64  `json:"credit_limit"`
	Status         string   `json:"status"`
}

// Party maps the input onto the canonical entity.
func (in PartyInput) Party() Party {
	name := in.Name
	if name == "" {
		name = in.PartyName
	}
	phone := in.Phone
	if phone == "" {
		phone = in.PhoneNo
	}
	balance := 0.0
	if in.Balance != nil {
		balance = *in.Balance
	} else if in.OpeningBalance != nil {
		balance = *in.OpeningBalance
	}
	typ := in.Type
	if typ == "" {
		typ = TypeCustomer
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return Party{
		Name:        name,
		Type:        typ,
		Phone:       phone,
		Email:       in.Email,
		Address:     in.Address,
		GSTNumber:   in.GSTNumber,
		Balance:     balance,
		CreditLimit: in.CreditLimit,
		Status:      status,
	}
}
