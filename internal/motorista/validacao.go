package motorista

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Valida aplica as checagens de forma do cadastro e devolve um mapa
// campo→mensagem; mapa vazio significa payload válido.
func (in CreateInput) Valida() map[string]string {
	erros := validaComuns(in.Nome, in.Email, in.Telefone, in.Cidade, in.UF, in.Role, in.Status)
	if utf8.RuneCountInString(in.Senha) < 6 {
		erros["senha"] = "Senha deve ter no mínimo 6 caracteres"
	}
	return erros
}

// Valida aplica as checagens de forma da edição; senha em branco é aceita
// e significa manter a atual.
func (in UpdateInput) Valida() map[string]string {
	erros := validaComuns(in.Nome, in.Email, in.Telefone, in.Cidade, in.UF, in.Role, in.Status)
	if in.Senha != "" && utf8.RuneCountInString(in.Senha) < 6 {
		erros["senha"] = "Senha deve ter no mínimo 6 caracteres"
	}
	return erros
}

func validaComuns(nome, email, telefone, cidade, uf string, role Role, status Status) map[string]string {
	erros := make(map[string]string)

	if utf8.RuneCountInString(strings.TrimSpace(nome)) < 3 {
		erros["nome"] = "Nome deve ter no mínimo 3 caracteres"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		erros["email"] = "Email inválido"
	}
	if utf8.RuneCountInString(strings.TrimSpace(telefone)) < 10 {
		erros["telefone"] = "Telefone inválido"
	}
	if utf8.RuneCountInString(strings.TrimSpace(cidade)) < 2 {
		erros["cidade"] = "Cidade é obrigatória"
	}
	if len(uf) != 2 {
		erros["uf"] = "Selecione uma UF"
	}
	if !role.Valida() {
		erros["role"] = "Perfil inválido"
	}
	if !status.Valida() {
		erros["status"] = "Status inválido"
	}

	return erros
}
