package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"sentiview/internal/lifecycle"
	"sentiview/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"percent": Percent,
}).ParseFS(templatesFS, "templates/*.tmpl"))

// Percent renders a probability for display by flooring it and appending a
// percent sign. The service's range is not validated: values in [0,1]
// render as 0%.
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "-"
	}
	return strconv.FormatFloat(math.Floor(p), 'f', 0, 64) + "%"
}

type pageView struct {
	Input       string
	Loading     bool
	Succeeded   bool
	Failed      bool
	Predictions []types.PredictionEntry
}

func newPageView(s lifecycle.Snapshot) pageView {
	v := pageView{
		Input:     s.Input,
		Loading:   s.Status == lifecycle.Loading,
		Succeeded: s.Status == lifecycle.Succeeded,
		Failed:    s.Status == lifecycle.Failed,
	}
	if v.Succeeded {
		v.Predictions = s.Result.Sorted()
	}
	return v
}

func renderPage(w http.ResponseWriter, s lifecycle.Snapshot) {
	var buf bytes.Buffer
	if err := pageTmpl.ExecuteTemplate(&buf, "index.html.tmpl", newPageView(s)); err != nil {
		logger().Error().Err(err).Msg("render page")
		writeJSONError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
