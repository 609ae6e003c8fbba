// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// VerificationEmailData holds data for the patient verification email.
type VerificationEmailData struct {
	SiteName  string
	FullName  string
	VerifyURL string
	ExpiresIn string // e.g., "3 days"
}

// BuildVerificationEmail creates a verification email with both HTML and text bodies.
func BuildVerificationEmail(data VerificationEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Verify your %s account", data.SiteName),
		TextBody: buildVerificationText(data),
		HTMLBody: render(verificationHTML, data),
	}
}

func buildVerificationText(data VerificationEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n", data.FullName)
	buf.WriteString("Please verify your email by clicking the link below:\n")
	buf.WriteString(data.VerifyURL + "\n\n")
	if data.ExpiresIn != "" {
		fmt.Fprintf(&buf, "This link expires in %s.\n\n", data.ExpiresIn)
	}
	buf.WriteString("If you did not create this account, ignore this email.\n")
	return buf.String()
}

// CredentialsEmailData holds data for the new-employee credentials email.
type CredentialsEmailData struct {
	SiteName string
	FullName string
	LoginID  string
	Password string
	LoginURL string
}

// BuildCredentialsEmail creates the message sent to a new employee's
// personal address with their portal login.
func BuildCredentialsEmail(data CredentialsEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("%s Employee Account Credentials", data.SiteName),
		TextBody: buildCredentialsText(data),
		HTMLBody: render(credentialsHTML, data),
	}
}

func buildCredentialsText(data CredentialsEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hello %s,\n\n", data.FullName)
	fmt.Fprintf(&buf, "Your %s employee account has been created.\n\n", data.SiteName)
	fmt.Fprintf(&buf, "Login email: %s\n", data.LoginID)
	fmt.Fprintf(&buf, "Password: %s\n\n", data.Password)
	fmt.Fprintf(&buf, "Login here: %s\n\n", data.LoginURL)
	buf.WriteString("Please keep these credentials secure.\n")
	return buf.String()
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.String()
}

var (
	verificationHTML = template.Must(template.New("verification").Parse(layoutOpen + verificationBody + layoutClose))
	credentialsHTML  = template.Must(template.New("credentials").Parse(layoutOpen + credentialsBody + layoutClose))
)

const layoutOpen = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteName}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f766e;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">`

const layoutClose = `
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

const verificationBody = `
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hi {{.FullName}},</p>
              <p style="margin: 0 0 24px; font-size: 16px; color: #374151; line-height: 1.5;">
                Please confirm your email address to activate your patient account.
              </p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.VerifyURL}}" style="display: inline-block; padding: 14px 32px; background-color: #0f766e; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Verify Email
                    </a>
                  </td>
                </tr>
              </table>
              {{if .ExpiresIn}}<p style="margin: 24px 0 0; font-size: 13px; color: #9ca3af; text-align: center;">This link expires in {{.ExpiresIn}}.</p>{{end}}
              <p style="margin: 16px 0 0; font-size: 12px; color: #9ca3af; text-align: center;">
                If you did not create this account, ignore this email.
              </p>`

const credentialsBody = `
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Hello {{.FullName}},</p>
              <p style="margin: 0 0 16px; font-size: 16px; color: #374151;">Your employee account has been created.</p>
              <p style="margin: 0 0 8px; font-size: 14px; color: #374151;"><strong>Login email:</strong> {{.LoginID}}</p>
              <p style="margin: 0 0 24px; font-size: 14px; color: #374151;"><strong>Password:</strong> <span style="font-family: 'Courier New', monospace;">{{.Password}}</span></p>
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.LoginURL}}" style="display: inline-block; padding: 14px 32px; background-color: #0f766e; color: #ffffff; text-decoration: none; font-size: 16px; font-weight: 500; border-radius: 6px;">
                      Employee Login
                    </a>
                  </td>
                </tr>
              </table>
              <p style="margin: 24px 0 0; font-size: 12px; color: #9ca3af; text-align: center;">Please keep these credentials secure.</p>`
