package sender

import (
	"bytes"
	"html/template"

	"github.com/diegova8/food-manager-backend/models"
)

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<h2>Your order is confirmed!</h2>
<p>Hi {{.CustomerName}}, we received your payment and your order is on the books.</p>
<table>
  {{range .OrderItems}}
  <tr><td>{{.Quantity}} × {{.Name}}</td><td>{{printf "%.2f" .UnitPrice}}</td></tr>
  {{end}}
</table>
<p><strong>Total:</strong> {{printf "%.2f" .Total}}</p>
<p><strong>Delivery:</strong> {{.DeliveryMethod}} on {{.ScheduledFor.Format "2006-01-02"}}</p>
{{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
<p>Reference: {{.PayPalOrderID}}</p>
`))

var adminAlertTmpl = template.Must(template.New("admin_alert").Parse(`
<h2>New paid order</h2>
<p>Order {{.ID}} was captured and confirmed.</p>
<p>Customer: {{if .CustomerName}}{{.CustomerName}} ({{.CustomerPhone}}){{else}}registered user {{.UserID}}{{end}}</p>
<p>Total: {{printf "%.2f" .Total}} / captured {{printf "%.2f" .CapturedAmount}}</p>
<p>Delivery: {{.DeliveryMethod}} on {{.ScheduledFor.Format "2006-01-02"}}</p>
<p>Gateway reference: {{.PayPalOrderID}} (txn {{.PayPalCaptureID}})</p>
`))

// OrderConfirmationBody renders the customer-facing confirmation email.
func OrderConfirmationBody(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AdminAlertBody renders the internal new-order alert email.
func AdminAlertBody(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := adminAlertTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}
