package notify

import (
	"bytes"
	"html/template"
	"io"
	"strconv"
	"strings"
	texttemplate "text/template"

	"bharatparcel/models"
)

const signature = "BharatParcel Team"

var emailTemplates = template.Must(template.New("email").Parse(`
{{define "acknowledgement"}}<h2>Booking Request Received</h2>
<p>Dear Customer,</p>
<p>Thank you for submitting your parcel booking request with us.</p>
<p>Your request has been received and is currently <strong>awaiting admin approval</strong>.</p>
<h3>Pickup Address:</h3>
<p>{{.From}}</p>
<h3>Delivery Address:</h3>
<p>{{.To}}</p>
<h3>Booking Summary:</h3>
<p>Total Weight: {{.Weight}} kg</p>
<p>Estimated Amount: ₹{{.Amount}}</p>
<p>You will receive another email with confirmation and tracking ID once your request is approved.</p>
<p>Best regards, <br /> {{.Signature}}</p>{{end}}

{{define "confirmation"}}<h2>Booking Confirmation</h2>
<p>Dear <strong>{{.Name}}</strong>,</p>
<p>Your booking with <strong>Booking ID: {{.ID}}</strong> has been successfully created.</p>
<h3>From Address:</h3>
<p>{{.From}}</p>
<h3>To Address:</h3>
<p>{{.To}}</p>
<h3>Product Details:</h3>
<p>Weight: {{.Weight}} kg</p>
<p>Amount: ₹{{.Amount}}</p>
<p>Thank you for choosing our service.</p>
<p>Best regards, <br /> {{.Signature}}</p>{{end}}

{{define "quotation"}}<h2><b>Quotation Details</b></h2>
<p>Dear {{.Name}},</p>
<p>Your booking with Booking ID: <strong>{{.ID}}</strong> has been successfully created.</p>
<p><strong>From Address:</strong> {{.From}}</p>
<p><strong>To Address:</strong> {{.To}}</p>
<h3>Product Details:</h3>
<ul>{{range .Products}}
<li><strong>Name:</strong> {{.Name}}, <strong>Weight:</strong> {{.Weight}}, <strong>Quantity:</strong> {{.Quantity}}, <strong>Price:</strong> {{.Price}}</li>{{end}}
</ul>
<p><strong>Grand Total:</strong> {{.Amount}}</p>
<p>Thank you for choosing our service.</p>
<p>Best regards,<br>{{.Signature}}</p>{{end}}
`))

var whatsappTemplates = texttemplate.Must(texttemplate.New("whatsapp").Parse(`
{{- define "booking"}}*📦 Booking Confirmation*

Dear *{{.Name}}*,

Your booking with *Booking ID: {{.ID}}* has been successfully created.

*From Address:*
{{.From}}

*To Address:*
{{.To}}

*Product Details:*
• Weight: {{.Weight}} kg
• Amount: ₹{{.Amount}}

Thank you for choosing our service.

_{{.Signature}}_{{end}}

{{- define "quotation"}}*📋 Quotation Details*

Dear *{{.Name}}*,

Your quotation *{{.ID}}* has been recorded.

*From Address:*
{{.From}}

*To Address:*
{{.To}}

*Products:*
{{- range .Products}}
• {{.Name}}: {{.Quantity}} x ₹{{.Price}} ({{.Weight}} kg)
{{- end}}

*Grand Total:* ₹{{.Amount}}

Thank you for choosing our service.

_{{.Signature}}_{{end}}`))

type messageData struct {
	Name      string
	ID        string
	From      string
	To        string
	Weight    string
	Amount    string
	Products  []models.Product
	Signature string
}

func address(parts ...string) string {
	return strings.Join(parts, ", ")
}

func number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func bookingData(name string, b *models.Booking) messageData {
	return messageData{
		Name:      name,
		ID:        b.BookingID,
		From:      address(b.SenderLocality, b.FromCity, b.FromState, b.SenderPincode),
		To:        address(b.ReceiverLocality, b.ToCity, b.ToState, b.ToPincode),
		Weight:    number(b.TotalWeight()),
		Amount:    number(b.GrandTotal),
		Signature: signature,
	}
}

func quotationData(q *models.Quotation) messageData {
	return messageData{
		Name:      models.FullName(q.FirstName, "", q.LastName),
		ID:        q.BookingID,
		From:      address(q.FromAddress, q.FromCity, q.FromState, q.FromPincode),
		To:        address(q.ToAddress, q.ToCity, q.ToState, q.ToPincode),
		Amount:    number(q.Amount),
		Products:  q.ProductDetails,
		Signature: signature,
	}
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

func render(t executor, name string, data messageData) string {
	var buf bytes.Buffer
	// fixed templates over plain data
	_ = t.ExecuteTemplate(&buf, name, data)
	return strings.TrimSpace(buf.String())
}

// BookingAcknowledgement is sent when a public booking request is received.
func BookingAcknowledgement(b *models.Booking) Message {
	return Message{
		Subject: "Booking Request Received for-" + b.BookingID + "  Pending Confirmation",
		Body:    render(emailTemplates, "acknowledgement", bookingData("", b)),
	}
}

func BookingConfirmationEmail(b *models.Booking) Message {
	return Message{
		Subject: "Booking Confirmation - " + b.BookingID,
		Body:    render(emailTemplates, "confirmation", bookingData(models.FullName(b.FirstName, "", b.LastName), b)),
	}
}

func QuotationEmail(q *models.Quotation) Message {
	return Message{
		Subject: "Quotation Details - " + q.BookingID,
		Body:    render(emailTemplates, "quotation", quotationData(q)),
	}
}

// BookingWhatsApp greets the customer by the name on their customer record.
func BookingWhatsApp(customerName string, b *models.Booking) Message {
	return Message{Body: render(whatsappTemplates, "booking", bookingData(customerName, b))}
}

func QuotationWhatsApp(q *models.Quotation) Message {
	return Message{Body: render(whatsappTemplates, "quotation", quotationData(q))}
}
