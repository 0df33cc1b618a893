// Package web serve as páginas do portal: login, listagem e formulários
// de motorista. Toda leitura e escrita de dados passa pelo serviço de
// consultas; o estado de sessão pelo store de sessão.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fretemax/portal-motorista/internal/config"
	"github.com/fretemax/portal-motorista/internal/consulta"
	"github.com/fretemax/portal-motorista/internal/motorista"
	"github.com/fretemax/portal-motorista/internal/session"
	"github.com/fretemax/portal-motorista/internal/web/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler agrega as dependências das páginas.
type Handler struct {
	cfg       *config.Config
	sessoes   *session.Store
	consultas *consulta.Service
	paginas   map[string]*template.Template
}

// NewRouter devolve o roteador do portal configurado.
func NewRouter(cfg *config.Config, sessoes *session.Store, consultas *consulta.Service) (http.Handler, error) {
	h := &Handler{
		cfg:       cfg,
		sessoes:   sessoes,
		consultas: consultas,
		paginas:   make(map[string]*template.Template),
	}

	funcs := template.FuncMap{
		"formataTelefone": FormataTelefone,
		"labelTipo": func(t motorista.TipoVeiculo) string {
			if label, ok := motorista.TipoVeiculoLabels[t]; ok {
				return label
			}
			return string(t)
		},
		"inc": func(n int) int { return n + 1 },
		"dec": func(n int) int { return n - 1 },
	}

	for _, nome := range []string{"login.html", "motoristas.html", "motorista_form.html"} {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templatesFS, "templates/base.html", "templates/"+nome)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", nome, err)
		}
		h.paginas[nome] = t
	}

	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin.RequestsPerSecond, cfg.RateLimitLogin.Burst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)

	r.Get("/login", h.LoginPage)
	r.With(middleware.IPRateLimit(loginLimiter)).Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(h.sessoes))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/motoristas", http.StatusSeeOther)
		})
		r.Get("/motoristas", h.ListaMotoristas)
		r.Get("/motoristas/novo", h.NovoMotorista)
		r.Post("/motoristas/novo", h.CriaMotorista)
		r.Get("/motoristas/{id}", h.EditaMotorista)
		r.Post("/motoristas/{id}", h.AtualizaMotorista)
		r.Post("/motoristas/{id}/excluir", h.ExcluiMotorista)
	})

	return r, nil
}

func (h *Handler) render(w http.ResponseWriter, nome string, dados any) {
	t, ok := h.paginas[nome]
	if !ok {
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base.html", dados); err != nil {
		http.Error(w, "erro interno", http.StatusInternalServerError)
	}
}
