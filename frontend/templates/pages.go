package templates

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Home is the signed-in landing page.
func Home(name, email, gravatarQuery string) templ.Component {
	return page("Home", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="card">
<img class="avatar" src="https://www.gravatar.com/avatar/%s" alt="avatar">
<h1>Welcome, %s</h1>
<p class="muted">%s</p>
<p><a href="/mfa/totp/activate">Set up authenticator MFA</a></p>
<p><a href="/mfa/eotp/activate">Set up email MFA</a></p>
<form method="post" action="/signout"><button type="submit">Sign out</button></form>
</div>`,
			gravatarQuery,
			templ.EscapeString(name),
			templ.EscapeString(email))
		return err
	})
}

// Signin renders the credential form, optionally with an error.
func Signin(errMsg, email string) templ.Component {
	return page("Sign in", func(w io.Writer) error {
		if err := errorBox(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<div class="card">
<h1>Sign in</h1>
<form method="post" action="/signin">
<div class="field"><label for="email">Email</label><input id="email" type="email" name="email" value="%s" required></div>
<div class="field"><label for="password">Password</label><input id="password" type="password" name="password" required></div>
<div class="field"><label><input type="checkbox" name="use_email_mfa" value="true"> Send the code by email instead</label></div>
<button type="submit">Sign in</button>
</form>
<p class="muted">No account? <a href="/signup">Sign up</a></p>
</div>`, templ.EscapeString(email))
		return err
	})
}

// MFAChallenge re-renders the signin form as an OTP prompt. The submitted
// credentials ride along as hidden fields so the user only types the code.
func MFAChallenge(challenge, errMsg, email, password string, useEmailMFA bool) templ.Component {
	return page("Sign in", func(w io.Writer) error {
		if err := errorBox(w, errMsg); err != nil {
			return err
		}
		emailMFAValue := ""
		if useEmailMFA {
			emailMFAValue = `<input type="hidden" name="use_email_mfa" value="true">`
		}
		_, err := fmt.Fprintf(w, `<div class="card">
<h1>One more step</h1>
<div class="challenge">%s</div>
<form method="post" action="/signin">
<input type="hidden" name="email" value="%s">
<input type="hidden" name="password" value="%s">
%s
<div class="field"><label for="otp_code">Code</label><input id="otp_code" type="text" name="otp_code" inputmode="numeric" autocomplete="one-time-code" required></div>
<button type="submit">Verify</button>
</form>
</div>`,
			templ.EscapeString(challenge),
			templ.EscapeString(email),
			templ.EscapeString(password),
			emailMFAValue)
		return err
	})
}

// Signup renders the account creation form.
func Signup(errMsg, name, email string) templ.Component {
	return page("Sign up", func(w io.Writer) error {
		if err := errorBox(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<div class="card">
<h1>Sign up</h1>
<form method="post" action="/signup">
<div class="field"><label for="name">Name</label><input id="name" type="text" name="name" value="%s" required></div>
<div class="field"><label for="email">Email</label><input id="email" type="email" name="email" value="%s" required></div>
<div class="field"><label for="password">Password</label><input id="password" type="password" name="password" required></div>
<button type="submit">Create account</button>
</form>
<p class="muted">Already registered? <a href="/signin">Sign in</a></p>
</div>`, templ.EscapeString(name), templ.EscapeString(email))
		return err
	})
}

// TOTPActivate shows the enrollment QR code and raw secret, plus the
// confirmation form.
func TOTPActivate(qrBase64, otpKey, errMsg string) templ.Component {
	return page("Authenticator MFA", func(w io.Writer) error {
		if err := errorBox(w, errMsg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<div class="card">
<h1>Set up authenticator MFA</h1>
<p class="muted">Scan the QR code with your authenticator app, or enter the secret manually, then confirm with a code.</p>
<img class="qr" src="data:image/png;base64,%s" alt="QR code" width="200" height="200">
<p><span class="secret">%s</span></p>
<form method="post" action="/mfa/totp/activate">
<input type="hidden" name="otp_key" value="%s">
<div class="field"><label for="otp_code">Code</label><input id="otp_code" type="text" name="otp_code" inputmode="numeric" autocomplete="one-time-code" required></div>
<button type="submit">Activate</button>
</form>
</div>`,
			qrBase64,
			templ.EscapeString(otpKey),
			templ.EscapeString(otpKey))
		return err
	})
}

// EOTPActivate shows the email-code confirmation form.
func EOTPActivate(errMsg string) templ.Component {
	return page("Email MFA", func(w io.Writer) error {
		if err := errorBox(w, errMsg); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<div class="card">
<h1>Set up email MFA</h1>
<p class="muted">We sent a code to your email address. Enter it below to activate email MFA.</p>
<form method="post" action="/mfa/eotp/activate">
<div class="field"><label for="otp_code">Code</label><input id="otp_code" type="text" name="otp_code" inputmode="numeric" autocomplete="one-time-code" required></div>
<button type="submit">Activate</button>
</form>
</div>`)
		return err
	})
}

// NotFound is the 404 fallback page.
func NotFound() templ.Component {
	return page("Not found", func(w io.Writer) error {
		_, err := io.WriteString(w, `<div class="card">
<h1>Page not found</h1>
<p class="muted">The page you are looking for does not exist.</p>
<p><a href="/">Back to home</a></p>
</div>`)
		return err
	})
}
