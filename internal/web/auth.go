package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fretemax/portal-motorista/internal/freteapi"
	"github.com/fretemax/portal-motorista/internal/web/middleware"
)

type dadosLogin struct {
	Titulo string
	Email  string
	Erro   string
}

// LoginPage renderiza o formulário de login; quem já tem sessão válida
// vai direto para a listagem.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.CookieSessao); err == nil {
		if _, err := h.sessoes.Restaura(r.Context(), cookie.Value); err == nil {
			http.Redirect(w, r, "/motoristas", http.StatusSeeOther)
			return
		}
	}

	h.render(w, "login.html", dadosLogin{Titulo: "Entrar"})
}

// Login autentica e emite o cookie de sessão. Credenciais rejeitadas
// voltam como erro do formulário, nunca como derrubada de sessão.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "login.html", dadosLogin{Titulo: "Entrar", Erro: "Requisição inválida"})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	senha := r.PostFormValue("senha")
	if email == "" || senha == "" {
		h.render(w, "login.html", dadosLogin{Titulo: "Entrar", Email: email, Erro: "Informe e-mail e senha"})
		return
	}

	sessao, err := h.sessoes.Login(r.Context(), email, senha)
	if err != nil {
		if errors.Is(err, freteapi.ErrCredenciais) {
			h.render(w, "login.html", dadosLogin{Titulo: "Entrar", Email: email, Erro: "E-mail ou senha inválidos"})
			return
		}
		log.Error().Err(err).Msg("falha no login")
		h.render(w, "login.html", dadosLogin{Titulo: "Entrar", Email: email, Erro: "Não foi possível entrar. Tente novamente."})
		return
	}

	middleware.GravaCookieSessao(w, sessao.ID, int(h.cfg.SessionTTL.Seconds()), h.cfg.CookieSecure)
	http.Redirect(w, r, "/motoristas", http.StatusSeeOther)
}

// Logout derruba a sessão e volta para o login. Seguro de repetir com a
// sessão já encerrada.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.CookieSessao); err == nil {
		if err := h.sessoes.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("falha no logout")
		}
	}

	middleware.ApagaCookieSessao(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
