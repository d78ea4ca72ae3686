package email

import (
	"bytes"
	"html/template"
)

const (
	welcomeMessage         = "welcome"
	passwordChangedMessage = "password_changed"
	accountStatusMessage   = "account_status"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.AppName}}</title></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f4f4f4;">
  <table role="presentation" style="width:100%;border-collapse:collapse;">
    <tr><td align="center" style="padding:40px 0;">
      <table role="presentation" style="width:600px;background-color:#ffffff;border-radius:8px;">
        <tr><td style="padding:32px 30px;text-align:center;background-color:#0F766E;border-radius:8px 8px 0 0;">
          <h1 style="margin:0;color:#ffffff;font-size:26px;">{{.AppName}}</h1>
        </td></tr>
        <tr><td style="padding:32px 30px;font-size:16px;line-height:24px;color:#333333;">
          <p>Assalamu alaikum {{.Name}},</p>
          {{template "body" .}}
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>{{end}}
{{define "welcome"}}{{template "layout" .}}{{end}}
{{define "password_changed"}}{{template "layout" .}}{{end}}
{{define "account_status"}}{{template "layout" .}}{{end}}
`))

var bodies = map[string]string{
	welcomeMessage:         `<p>Your account has been created. You can now save duas and ayahs to your bookmarks.</p>`,
	passwordChangedMessage: `<p>The password for your account was just changed. If this was not you, contact an administrator.</p>`,
	accountStatusMessage:   `<p>An administrator set your account status to <strong>{{.Status}}</strong>.</p>`,
}

type messageData struct {
	AppName string
	Name    string
	Status  string
}

func render(message, appName, name, status string) (string, error) {
	t, err := templates.Clone()
	if err != nil {
		return "", err
	}
	if _, err := t.New("body").Parse(bodies[message]); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, message, messageData{AppName: appName, Name: name, Status: status}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
