package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/mind-engage/mindengage-evaluator/internal/extract"
	"github.com/mind-engage/mindengage-evaluator/internal/grading"
)

var page = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Offline Test Paper Evaluator</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
.warning { background: #fff4ce; padding: .75rem; border-radius: 4px; }
.error { background: #fde7e9; padding: .75rem; border-radius: 4px; }
.total { background: #dff6dd; padding: .75rem; border-radius: 4px; font-weight: bold; }
</style>
</head>
<body>
<h1>&#128216; Offline Test Paper Evaluation System</h1>
<p>Upload a student answer PDF. Evaluation is done automatically (no API key required).</p>
<form method="post" action="/" enctype="multipart/form-data">
  <label>Upload Student Answer Sheet (PDF)
    <input type="file" name="file" accept="application/pdf,.pdf">
  </label>
  <button type="submit">Evaluate</button>
</form>
{{with .Warning}}<p class="warning">{{.}}</p>{{end}}
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{with .Report}}
<h2>&#128221; Evaluation Result</h2>
{{range $i, $q := .Questions}}
<p><strong>Question {{inc $i}}:</strong> {{$q.Mark}} / {{$q.MaxMarks}}</p>
<p>{{$q.Feedback}}</p>
{{end}}
<p class="total">Total Marks: {{.Total}} / {{.MaxTotal}}</p>
{{end}}
</body>
</html>
`))

type pageData struct {
	Warning string
	Error   string
	Report  *grading.Report
}

// GET / renders the upload form; POST / evaluates the upload and renders the
// result below the form.
func UIHandler(ev Evaluator, maxUpload int64, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method != http.MethodPost {
			_ = page.Execute(w, pageData{})
			return
		}

		var data pageData
		f, _, err := formFile(w, r, maxUpload)
		switch {
		case errors.Is(err, errNoUpload):
			data.Warning = MissingUploadWarning
		case isTooLarge(err):
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			data.Error = "The uploaded file is too large."
		case err != nil:
			w.WriteHeader(http.StatusBadRequest)
			data.Error = "The upload could not be read."
		default:
			defer f.Close()
			rep, err := ev.EvaluateDocument(r.Context(), f)
			if err != nil {
				log.Warn("evaluation failed", "err", err)
				w.WriteHeader(statusFor(err))
				data.Error = "Evaluation failed."
				if errors.Is(err, extract.ErrUnreadable) {
					data.Error = "The PDF could not be read. It may be damaged or password protected."
				}
				break
			}
			log.Info("evaluation done", "report", rep.ID, "total", rep.Total, "max_total", rep.MaxTotal)
			data.Report = &rep
		}
		_ = page.Execute(w, data)
	}
}
