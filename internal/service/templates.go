package service

import (
	"bytes"
	"html/template"
	"payment-notify-relay/internal/model"

	"github.com/pkg/errors"
)

const storeSignature = "Finest Store"

var paidConfirmationTemplate = template.Must(template.New("paid_confirmation").Parse(`
<div style="font-family: Arial; padding:20px;">
  <h2>🧾 Payment Received</h2>
  <p>Hi <b>{{.Name}}</b>,</p>
  <p>Your payment details have been submitted successfully.</p>
  <ul>
    <li>Product: <b>{{.Product}}</b></li>
    <li>Transaction ID: <b>{{.PaymentID}}</b></li>
    <li>Status: <b>Under Verification</b></li>
  </ul>
  <p>Our team will contact you on Discord shortly.</p>
  <p>— {{.Signature}}</p>
</div>
`))

func paidConfirmationSubject(submission *model.Submission) string {
	return "Payment Submitted | " + submission.Product
}

func renderPaidConfirmation(submission *model.Submission) (string, error) {
	var buf bytes.Buffer
	err := paidConfirmationTemplate.Execute(&buf, struct {
		Name      string
		Product   string
		PaymentID string
		Signature string
	}{
		Name:      submission.Name,
		Product:   submission.Product,
		PaymentID: submission.PaymentID,
		Signature: storeSignature,
	})
	if err != nil {
		return "", errors.Wrap(err, "render confirmation email")
	}
	return buf.String(), nil
}
