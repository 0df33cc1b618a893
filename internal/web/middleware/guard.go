package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fretemax/portal-motorista/internal/freteapi"
	"github.com/fretemax/portal-motorista/internal/session"
)

// CookieSessao é o cookie que referencia a sessão persistida.
const CookieSessao = "portal_sessao"

// Sessoes é o subconjunto do store de sessão usado pelo guard.
type Sessoes interface {
	Restaura(ctx context.Context, id string) (session.Sessao, error)
}

// Guard impede a renderização de páginas protegidas antes da sessão
// estar estabelecida: restaura a sessão do cookie e, sem sessão válida,
// redireciona para o login sem executar o handler. Com sessão, injeta a
// sessão e o bearer token no contexto da requisição.
func Guard(sessoes Sessoes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieSessao)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			sessao, err := sessoes.Restaura(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrSemSessao) {
					log.Error().Err(err).Msg("falha restaurando sessão")
				}
				ApagaCookieSessao(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := session.NaContexto(r.Context(), sessao)
			ctx = freteapi.WithToken(ctx, sessao.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GravaCookieSessao emite o cookie de sessão.
func GravaCookieSessao(w http.ResponseWriter, id string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSessao,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ApagaCookieSessao expira o cookie de sessão.
func ApagaCookieSessao(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSessao,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
