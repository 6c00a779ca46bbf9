package payment

import (
	"html/template"
	"io"
	"net/url"
	"sort"
)

// SignedCheckout is a signed payment request ready to be posted to the
// hosted checkout page.
type SignedCheckout struct {
	Request   PaymentRequest
	Amount    string
	Signature string
	ActionURL string
}

// Fields returns the outbound form fields in the gateway's naming.
func (c *SignedCheckout) Fields() url.Values {
	r := c.Request
	v := url.Values{}
	v.Set("merchant_id", r.MerchantID)
	v.Set("return_url", r.URLs.ReturnURL)
	v.Set("cancel_url", r.URLs.CancelURL)
	v.Set("notify_url", r.URLs.NotifyURL)
	v.Set("order_id", r.OrderID)
	v.Set("items", r.Items)
	v.Set("currency", r.Currency)
	v.Set("amount", c.Amount)
	v.Set("first_name", r.Customer.FirstName)
	v.Set("last_name", r.Customer.LastName)
	v.Set("email", r.Customer.Email)
	v.Set("phone", r.Customer.Phone)
	v.Set("address", r.Customer.Address)
	v.Set("city", r.Customer.City)
	v.Set("country", r.Customer.Country)
	v.Set("hash", c.Signature)
	return v
}

type formField struct {
	Name  string
	Value string
}

var checkoutForm = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<body onload="document.forms[0].submit()">
<form method="post" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

// RenderCheckoutForm writes an HTML page that auto-submits the signed fields
// to the hosted checkout.
func RenderCheckoutForm(w io.Writer, c *SignedCheckout) error {
	values := c.Fields()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]formField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, formField{Name: k, Value: values.Get(k)})
	}

	return checkoutForm.Execute(w, struct {
		Action string
		Fields []formField
	}{
		Action: c.ActionURL,
		Fields: fields,
	})
}
