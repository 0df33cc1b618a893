package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fretemax/portal-motorista/internal/motorista"
)

const prefixoRole = "ROLE_"

// Usuario é a identidade derivada das claims do token.
type Usuario struct {
	ID    string         `json:"id"`
	Email string         `json:"email"`
	Nome  string         `json:"nome,omitempty"`
	Role  motorista.Role `json:"role,omitempty"`
}

// IdentidadeDoToken deriva a identidade das claims do bearer token. O
// portal não guarda o segredo de assinatura, então as claims são lidas
// sem verificação; a API é quem valida o token a cada chamada.
//
// Fallbacks: email ← claim sub ou o e-mail informado no login; nome ←
// claim name ou a parte local do e-mail; role ← claim scope sem o
// prefixo ROLE_, ou USUARIO quando ausente.
func IdentidadeDoToken(token, emailInformado string) (Usuario, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Usuario{}, err
	}

	email := claimString(claims, "sub")
	if email == "" {
		email = emailInformado
	}

	nome := claimString(claims, "name")
	if nome == "" {
		nome, _, _ = strings.Cut(email, "@")
	}

	role := motorista.RoleUsuario
	if scope := claimString(claims, "scope"); scope != "" {
		role = motorista.Role(strings.TrimPrefix(scope, prefixoRole))
	}

	return Usuario{
		ID:    claimString(claims, "user"),
		Email: email,
		Nome:  nome,
		Role:  role,
	}, nil
}

func claimString(claims jwt.MapClaims, nome string) string {
	val, _ := claims[nome].(string)
	return val
}
