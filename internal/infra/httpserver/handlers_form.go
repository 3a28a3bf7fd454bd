package httpserver

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/apiwire"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/form.html"))

type formField struct {
	Name  string
	Label string
	Value string
	Step  string
	Min   string
	Max   string
}

type formPage struct {
	Version string
	Fields  []formField

	Result     *apiwire.BalanceResponse
	Derivation domain.Derivation
	Error      string
}

func (s *Server) newFormPage(in domain.Inputs) formPage {
	return formPage{
		Version: s.deps.Version,
		Fields: []formField{
			{Name: "initial_mass_kg", Label: "Initial mass (kg)", Value: formatInput(in.InitialMass), Step: "0.1", Min: "0"},
			{Name: "initial_brix", Label: "Initial concentration (°Bx)", Value: formatInput(in.InitialBrix), Step: "0.1", Min: "0", Max: "100"},
			{Name: "target_brix", Label: "Target concentration (°Bx)", Value: formatInput(in.TargetBrix), Step: "0.1", Min: "0", Max: "100"},
		},
	}
}

func (s *Server) handleFormPage(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, http.StatusOK, s.newFormPage(s.cfg.DefaultInputs()))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		page := s.newFormPage(s.cfg.DefaultInputs())
		page.Error = "could not read the form"
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}

	in := s.cfg.DefaultInputs()
	var parseErr error
	in.InitialMass, parseErr = formFloat(r, "initial_mass_kg", in.InitialMass, parseErr)
	in.InitialBrix, parseErr = formFloat(r, "initial_brix", in.InitialBrix, parseErr)
	in.TargetBrix, parseErr = formFloat(r, "target_brix", in.TargetBrix, parseErr)

	page := s.newFormPage(in)
	if parseErr != nil {
		page.Error = parseErr.Error()
		s.renderPage(w, http.StatusUnprocessableEntity, page)
		return
	}

	b, err := s.deps.Compute.Execute(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.deps.Logger.Error("http.internal_error", "err", err)
		}
		page.Error = apiwire.NewErrorResponse(err).Error.Message
		s.renderPage(w, status, page)
		return
	}

	resp := apiwire.NewBalanceResponse(b, s.cfg.Display.Precision, false)
	page.Result = &resp
	page.Derivation = domain.Explain(b, s.cfg.Display.Precision)
	s.renderPage(w, http.StatusOK, page)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, page); err != nil {
		s.deps.Logger.Warn("http.render_failed", "err", err)
	}
}

// formFloat reads a numeric form value. An empty value keeps def. The first
// parse error is carried through prev.
func formFloat(r *http.Request, name string, def float64, prev error) (float64, error) {
	raw := strings.TrimSpace(r.PostForm.Get(name))
	if raw == "" {
		return def, prev
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		if prev == nil {
			prev = fieldError(name)
		}
		return def, prev
	}
	return v, prev
}

type fieldError string

func (f fieldError) Error() string {
	return string(f) + " must be a number"
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
