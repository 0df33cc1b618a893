package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fretemax/portal-motorista/internal/freteapi"
	"github.com/fretemax/portal-motorista/internal/session"
)

type stubSessoes struct {
	sessao session.Sessao
	err    error
}

func (s *stubSessoes) Restaura(ctx context.Context, id string) (session.Sessao, error) {
	if s.err != nil {
		return session.Sessao{}, s.err
	}
	if id != s.sessao.ID {
		return session.Sessao{}, session.ErrSemSessao
	}
	return s.sessao, nil
}

func TestGuardSemCookieRedirecionaParaLogin(t *testing.T) {
	executado := false
	handler := Guard(&stubSessoes{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executado = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/motoristas", nil))

	if executado {
		t.Error("conteúdo protegido não pode ser renderizado sem sessão")
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("resposta = %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuardSessaoInvalidaRedirecionaELimpaCookie(t *testing.T) {
	handler := Guard(&stubSessoes{err: session.ErrSemSessao})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler não deveria executar")
	}))

	req := httptest.NewRequest(http.MethodGet, "/motoristas", nil)
	req.AddCookie(&http.Cookie{Name: CookieSessao, Value: "expirada"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("resposta = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	apagou := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == CookieSessao && cookie.MaxAge < 0 {
			apagou = true
		}
	}
	if !apagou {
		t.Error("cookie de sessão inválida deve ser expirado")
	}
}

func TestGuardErroDePersistenciaRedireciona(t *testing.T) {
	handler := Guard(&stubSessoes{err: errors.New("redis indisponível")})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler não deveria executar")
	}))

	req := httptest.NewRequest(http.MethodGet, "/motoristas", nil)
	req.AddCookie(&http.Cookie{Name: CookieSessao, Value: "sid"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestGuardInjetaSessaoETokenNoContexto(t *testing.T) {
	sessao := session.Sessao{ID: "sid", Token: "jwt-abc", Usuario: session.Usuario{Email: "ana@fretemax.com.br"}}
	sessoes := &stubSessoes{sessao: sessao}

	handler := Guard(sessoes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := session.DaContexto(r.Context())
		if !ok || got.ID != "sid" {
			t.Errorf("sessão no contexto = %+v", got)
		}
		if token := freteapi.TokenFromContext(r.Context()); token != "jwt-abc" {
			t.Errorf("token no contexto = %q", token)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/motoristas", nil)
	req.AddCookie(&http.Cookie{Name: CookieSessao, Value: "sid"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("code = %d", rec.Code)
	}
}
