package web

import (
	"html/template"
	"net/http"

	"github.com/viralpost/authgate/pkg/logger"
)

var errorPageTmpl = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Authentication error</title></head>
<body>
<main>
<h1>Sorry, something went wrong</h1>
<p>{{.}}</p>
<p><a href="/sign-in">Back to sign in</a></p>
</main>
</body>
</html>
`))

// ErrorPage handles GET /auth/error, rendering the message carried in the
// query. Dismissal is just navigating away.
func (h *Handler) ErrorPage(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		message = "An unexpected error occurred."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := errorPageTmpl.Execute(w, message); err != nil {
		h.logger.Error("failed to render error page", logger.Error(err), logger.Component("web"))
	}
}
