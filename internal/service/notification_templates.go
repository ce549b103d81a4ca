package service

import "html/template"

var paymentPatientTmpl = template.Must(template.New("payment_patient").Parse(`<p>Dear {{.Name}},</p>
<p>Thank you for your payment. Your appointment is confirmed.</p>
<table>
<tr><td>Reference</td><td>{{.Reference}}</td></tr>
<tr><td>Status</td><td>{{.Status}}</td></tr>
{{if .Appointment}}<tr><td>Appointment</td><td>{{.Appointment}}</td></tr>{{end}}
<tr><td>Amount</td><td>{{.Amount}} {{.Currency}}</td></tr>
</table>
<p>Your receipt is attached.</p>
<p>{{.ClinicName}}</p>`))

var paymentAdminTmpl = template.Must(template.New("payment_admin").Parse(`<p>A payment was confirmed.</p>
<table>
<tr><td>Patient</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
{{if .Phone}}<tr><td>Phone</td><td>{{.Phone}}</td></tr>{{end}}
<tr><td>Reference</td><td>{{.Reference}}</td></tr>
<tr><td>Status</td><td>{{.Status}}</td></tr>
{{if .Appointment}}<tr><td>Appointment</td><td>{{.Appointment}}</td></tr>{{end}}
<tr><td>Amount</td><td>{{.Amount}} {{.Currency}}</td></tr>
</table>`))

var bookingPatientTmpl = template.Must(template.New("booking_patient").Parse(`<p>Dear {{.Name}},</p>
<p>We have received your booking.</p>
<table>
<tr><td>Booking</td><td>{{.Reference}}</td></tr>
{{if .Appointment}}<tr><td>Appointment</td><td>{{.Appointment}}</td></tr>{{end}}
<tr><td>Total</td><td>{{.Amount}} {{.Currency}}</td></tr>
</table>
<p>Your booking summary is attached.</p>
<p>{{.ClinicName}}</p>`))

var bookingAdminTmpl = template.Must(template.New("booking_admin").Parse(`<p>A new booking was received.</p>
<table>
<tr><td>Patient</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
{{if .Phone}}<tr><td>Phone</td><td>{{.Phone}}</td></tr>{{end}}
<tr><td>Booking</td><td>{{.Reference}}</td></tr>
{{if .Appointment}}<tr><td>Appointment</td><td>{{.Appointment}}</td></tr>{{end}}
<tr><td>Total</td><td>{{.Amount}} {{.Currency}}</td></tr>
</table>`))

var contactAdminTmpl = template.Must(template.New("contact_admin").Parse(`<p>New contact message.</p>
<table>
<tr><td>Name</td><td>{{.FullName}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
{{if .Phone}}<tr><td>Phone</td><td>{{.Phone}}</td></tr>{{end}}
</table>
<p>{{.Message}}</p>`))

var contactAckTmpl = template.Must(template.New("contact_ack").Parse(`<p>Dear {{.FullName}},</p>
<p>Thank you for contacting us. We received your message and will get back to you shortly.</p>
<blockquote>{{.Message}}</blockquote>`))
