package client

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"flightfare-core/internal/domain/entity"
)

const appName = "Flight Price Prediction App"

const layoutHTML = `<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
      .container { max-width: 600px; margin: 20px auto; background: #ffffff; padding: 20px; border-radius: 8px; }
      .header { text-align: center; font-size: 24px; font-weight: bold; color: #333; }
      .content { font-size: 16px; color: #555; line-height: 1.6; text-align: center; }
      .button { display: inline-block; padding: 12px 20px; margin: 20px 0; color: #ffffff; background: #007BFF; text-decoration: none; border-radius: 5px; }
      .footer { font-size: 12px; color: #777; text-align: center; margin-top: 20px; }
      table { margin: 0 auto; border-collapse: collapse; }
      td { padding: 4px 12px; text-align: left; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">{{.App}}</div>
      {{template "body" .}}
      <div class="footer">&copy; {{.Year}} Flight Price Prediction. All rights reserved.</div>
    </div>
  </body>
</html>`

const verificationHTML = `{{define "body"}}
      <p class="content">Welcome to our service! We just need to verify your email before you can start using your account.</p>
      <p class="content">Click the button below to verify your email:</p>
      <p style="text-align: center;"><a href="{{.URL}}" class="button" target="_blank">Verify Email</a></p>
      <p class="content">If you did not sign up for this service, please ignore this email.</p>
{{end}}`

const bookingHTML = `{{define "body"}}
      <p class="content">{{.Headline}}</p>
      <table>
        <tr><td>Reference</td><td>{{.Details.Reference}}</td></tr>
        <tr><td>Passenger</td><td>{{.Details.UserName}}</td></tr>
        <tr><td>Phone</td><td>{{.Details.PhoneNumber}}</td></tr>
        <tr><td>Airline</td><td>{{.Details.Airline}}</td></tr>
        <tr><td>From</td><td>{{.Details.Origin}}</td></tr>
        <tr><td>To</td><td>{{.Details.Destination}}</td></tr>
        <tr><td>Departure</td><td>{{.Departure}}</td></tr>
        <tr><td>Arrival</td><td>{{.Arrival}}</td></tr>
        <tr><td>Stops</td><td>{{.Details.TransitCount}}</td></tr>
        <tr><td>Price</td><td>{{printf "%.2f" .Details.PredictedPrice}}</td></tr>
      </table>
{{end}}`

const resetText = `Click the link to reset your {{.App}} account password: {{.URL}}
If you did not request this, please ignore this email`

var (
	verificationTmpl = htmltemplate.Must(htmltemplate.Must(htmltemplate.New("layout").Parse(layoutHTML)).Parse(verificationHTML))
	bookingTmpl      = htmltemplate.Must(htmltemplate.Must(htmltemplate.New("layout").Parse(layoutHTML)).Parse(bookingHTML))
	resetTmpl        = texttemplate.Must(texttemplate.New("reset").Parse(resetText))
)

func renderVerification(url string, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, map[string]any{"App": appName, "Year": now.Year(), "URL": url})
	return buf.String(), err
}

func renderReset(url string) (string, error) {
	var buf bytes.Buffer
	err := resetTmpl.Execute(&buf, map[string]any{"App": appName, "URL": url})
	return buf.String(), err
}

func renderBooking(headline string, d entity.BookingDetails, now time.Time) (string, error) {
	var buf bytes.Buffer
	err := bookingTmpl.Execute(&buf, map[string]any{
		"App":       appName,
		"Year":      now.Year(),
		"Headline":  headline,
		"Details":   d,
		"Departure": d.DepartureTime.Format("02 Jan 2006 15:04"),
		"Arrival":   d.ArrivalTime.Format("02 Jan 2006 15:04"),
	})
	return buf.String(), err
}

func joinURL(root, path string) string {
	return strings.TrimRight(root, "/") + path
}
