package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const styles = `
body { font-family: Arial, sans-serif; background: #f6f7fb; color: #1f2937; margin: 0; }
.card { max-width: 420px; margin: 48px auto; background: #ffffff; border: 1px solid #e5e7eb; border-radius: 12px; padding: 24px; }
.card h1 { font-size: 20px; margin-top: 0; }
.field { margin-bottom: 12px; }
.field label { display: block; font-size: 13px; margin-bottom: 4px; color: #6b7280; }
.field input { width: 100%; box-sizing: border-box; padding: 8px; border: 1px solid #d1d5db; border-radius: 6px; }
.error { background: #fef2f2; color: #b91c1c; border: 1px solid #fecaca; border-radius: 6px; padding: 8px 12px; margin-bottom: 12px; font-size: 14px; }
.challenge { background: #eff6ff; color: #1d4ed8; border: 1px solid #bfdbfe; border-radius: 6px; padding: 8px 12px; margin-bottom: 12px; font-size: 14px; }
button { padding: 8px 16px; background: #0f172a; color: #ffffff; border: none; border-radius: 6px; cursor: pointer; }
.muted { font-size: 13px; color: #6b7280; }
.avatar { display: block; margin: 0 auto 16px; border-radius: 50%; width: 120px; height: 120px; }
.qr { display: block; margin: 0 auto 16px; }
.secret { font-family: monospace; background: #f3f4f6; padding: 6px 10px; border-radius: 6px; display: inline-block; }
a { color: #1d4ed8; }
`

// Forms echo the _csrf cookie through a hidden field added on submit.
const csrfScript = `
document.addEventListener('submit', function (e) {
  var m = document.cookie.match(/(?:^|; )_csrf=([^;]*)/);
  if (!m || e.target.querySelector('input[name="_csrf"]')) { return; }
  var input = document.createElement('input');
  input.type = 'hidden';
  input.name = '_csrf';
  input.value = decodeURIComponent(m[1]);
  e.target.appendChild(input);
}, true);
`

// page wraps a body-rendering function in the shared document layout.
func page(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><style>%s</style></head><body>",
			templ.EscapeString(title), styles); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "<script>%s</script></body></html>", csrfScript)
		return err
	})
}

// errorBox renders the shared validation-error banner, or nothing.
func errorBox(w io.Writer, msg string) error {
	if msg == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, `<div class="error">%s</div>`, templ.EscapeString(msg))
	return err
}
