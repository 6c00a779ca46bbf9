package transport

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"lancer-be/internal/payment"
	"lancer-be/internal/utils"
)

const maxItemsLength = 255

// CheckoutRequest is the body of a wallet top-up checkout. It is validated
// once here; the payment service trusts its input.
type CheckoutRequest struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Items     string `json:"items"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

func (r *CheckoutRequest) Validate() error {
	var errs []error

	if strings.TrimSpace(r.Amount) == "" {
		errs = append(errs, errors.New("amount is required"))
	} else if amount, err := payment.ParseAmount(strings.TrimSpace(r.Amount)); err != nil {
		errs = append(errs, err)
	} else if !amount.IsPositive() {
		errs = append(errs, errors.New("amount must be greater than zero"))
	}

	if c := strings.TrimSpace(r.Currency); c != "" && len(c) != 3 {
		errs = append(errs, fmt.Errorf("currency must be an ISO 4217 code, got %q", c))
	}
	if len(r.Items) > maxItemsLength {
		errs = append(errs, fmt.Errorf("items must be at most %d characters", maxItemsLength))
	}
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, errors.New("first_name is required"))
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		errs = append(errs, errors.New("email is invalid"))
	}
	if utils.NormalizePhone(r.Phone) == "" {
		errs = append(errs, errors.New("phone is required"))
	}

	return errors.Join(errs...)
}

// Input converts a validated request into the payment service input.
func (r *CheckoutRequest) Input() payment.CheckoutInput {
	amount, _ := payment.ParseAmount(strings.TrimSpace(r.Amount))

	return payment.CheckoutInput{
		Amount:   amount,
		Currency: strings.TrimSpace(r.Currency),
		Items:    strings.TrimSpace(r.Items),
		Customer: payment.Customer{
			FirstName: strings.TrimSpace(r.FirstName),
			LastName:  strings.TrimSpace(r.LastName),
			Email:     strings.TrimSpace(r.Email),
			Phone:     utils.NormalizePhone(r.Phone),
			Address:   strings.TrimSpace(r.Address),
			City:      strings.TrimSpace(r.City),
			Country:   strings.TrimSpace(r.Country),
		},
	}
}

func checkoutRequestFromForm(get func(string) string) CheckoutRequest {
	return CheckoutRequest{
		Amount:    get("amount"),
		Currency:  get("currency"),
		Items:     get("items"),
		FirstName: get("first_name"),
		LastName:  get("last_name"),
		Email:     get("email"),
		Phone:     get("phone"),
		Address:   get("address"),
		City:      get("city"),
		Country:   get("country"),
	}
}
