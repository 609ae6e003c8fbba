package mailer

import (
	"strings"
	"testing"
)

func TestBuildVerificationEmail(t *testing.T) {
	e := BuildVerificationEmail(VerificationEmailData{
		SiteName:  "NeuroNest",
		FullName:  "Pat Doe",
		VerifyURL: "https://portal.test/verify/abc/123-def",
		ExpiresIn: "3 days",
	})

	if e.Subject != "Verify your NeuroNest account" {
		t.Errorf("Subject = %q", e.Subject)
	}
	for _, want := range []string{"Hi Pat Doe", "https://portal.test/verify/abc/123-def", "3 days"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
	if !strings.Contains(e.HTMLBody, `href="https://portal.test/verify/abc/123-def"`) {
		t.Error("html body missing link")
	}
}

func TestBuildVerificationEmail_EscapesHTML(t *testing.T) {
	e := BuildVerificationEmail(VerificationEmailData{SiteName: "NeuroNest", FullName: "<script>x</script>"})
	if strings.Contains(e.HTMLBody, "<script>") {
		t.Error("full name must be escaped in html body")
	}
}

func TestBuildCredentialsEmail(t *testing.T) {
	e := BuildCredentialsEmail(CredentialsEmailData{
		SiteName: "NeuroNest",
		FullName: "Eve Nurse",
		LoginID:  "eve@clinic.org",
		Password: "s3cret-pass",
		LoginURL: "https://portal.test/login/employee",
	})

	if e.Subject != "NeuroNest Employee Account Credentials" {
		t.Errorf("Subject = %q", e.Subject)
	}
	for _, want := range []string{"eve@clinic.org", "s3cret-pass", "https://portal.test/login/employee"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
		if !strings.Contains(e.HTMLBody, want) {
			t.Errorf("html body missing %q", want)
		}
	}
}
