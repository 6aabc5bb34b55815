package mail

import (
	"bytes"
	"html/template"
)

var (
	verificationTemplate = template.Must(template.New("verification").Parse(`<html>
<body>
  <h2>Welcome to NEXT_</h2>
  <p>Confirm your email address to activate your account:</p>
  <p><a href="{{.Link}}">Verify my email</a></p>
  <p>The link expires in 24 hours. If you did not create this account, ignore this message.</p>
</body>
</html>`))

	resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body>
  <h2>Password reset</h2>
  <p>Use this code to reset your password:</p>
  <p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
  <p>The code expires in 10 minutes. If you did not request a reset, ignore this message.</p>
</body>
</html>`))

	confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body>
  <h2>Account update</h2>
  <p>This is a confirmation that the following changed on your account: <strong>{{.Change}}</strong>.</p>
  <p>If this was not you, reset your password immediately.</p>
</body>
</html>`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
