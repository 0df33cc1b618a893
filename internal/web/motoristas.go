package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fretemax/portal-motorista/internal/freteapi"
	"github.com/fretemax/portal-motorista/internal/motorista"
	"github.com/fretemax/portal-motorista/internal/session"
	"github.com/fretemax/portal-motorista/internal/web/middleware"
)

const tamanhoPagina = 10

const sortPadrao = "nome,asc"

type dadosLista struct {
	Titulo            string
	Usuario           session.Usuario
	Filtros           motorista.Filtros
	TiposSelecionados map[string]bool
	Sort              string
	Pagina            motorista.Pagina
	Paginacao         []ItemPaginacao
	QueryBase         string
	VehicleTypes      []motorista.VehicleType
	UFs               []string
	Flash             string
	Erro              string
}

type dadosForm struct {
	Titulo            string
	Usuario           session.Usuario
	Edicao            bool
	ID                string
	Nome              string
	Email             string
	Telefone          string
	Cidade            string
	UF                string
	Role              motorista.Role
	Status            motorista.Status
	TiposSelecionados map[string]bool
	CreatedAt         string
	UpdatedAt         string
	Erros             map[string]string
	Erro              string
	VehicleTypes      []motorista.VehicleType
	UFs               []string
	Roles             []motorista.Role
	Statuses          []motorista.Status
}

var flashes = map[string]string{
	"criado":     "Motorista cadastrado com sucesso!",
	"atualizado": "Motorista atualizado com sucesso!",
	"excluido":   "Motorista excluído com sucesso!",
}

// ListaMotoristas renderiza a listagem com filtros, ordenação e
// paginação.
func (h *Handler) ListaMotoristas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filtros := motorista.Filtros{
		Texto:        strings.TrimSpace(q.Get("texto")),
		UF:           strings.TrimSpace(q.Get("uf")),
		Cidade:       strings.TrimSpace(q.Get("cidade")),
		TiposVeiculo: tiposDoForm(q["tiposVeiculo"]),
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 0 {
		page = 0
	}

	sort := q.Get("sort")
	if sort == "" {
		sort = sortPadrao
	}

	usuario, _ := session.DaContexto(r.Context())
	dados := dadosLista{
		Titulo:            "Motoristas",
		Usuario:           usuario.Usuario,
		Filtros:           filtros,
		TiposSelecionados: marcaTipos(filtros.TiposVeiculo),
		Sort:              sort,
		QueryBase:         queryBase(filtros, sort),
		UFs:               motorista.UFs,
		Flash:             flashes[q.Get("msg")],
	}

	if tipos, err := h.consultas.VehicleTypes(r.Context()); err == nil {
		dados.VehicleTypes = tipos
	} else if errors.Is(err, freteapi.ErrNaoAutorizado) {
		h.redirecionaLogin(w, r)
		return
	}

	pagina, err := h.consultas.Motoristas(r.Context(), filtros, page, tamanhoPagina, sort)
	if err != nil {
		if errors.Is(err, freteapi.ErrNaoAutorizado) {
			h.redirecionaLogin(w, r)
			return
		}
		log.Error().Err(err).Msg("falha listando motoristas")
		dados.Erro = "Não foi possível carregar os motoristas. Tente novamente."
		h.render(w, "motoristas.html", dados)
		return
	}

	dados.Pagina = pagina
	dados.Paginacao = JanelaPaginacao(pagina.Number, pagina.TotalPages)
	h.render(w, "motoristas.html", dados)
}

// NovoMotorista renderiza o formulário de cadastro com os defaults do
// portal: perfil MOTORISTA e status ATIVO.
func (h *Handler) NovoMotorista(w http.ResponseWriter, r *http.Request) {
	dados, err := h.novoDadosForm(r, false)
	if err != nil {
		h.redirecionaLogin(w, r)
		return
	}
	dados.Titulo = "Novo Motorista"
	dados.Role = motorista.RoleMotorista
	dados.Status = motorista.StatusAtivo
	h.render(w, "motorista_form.html", dados)
}

// CriaMotorista valida o formulário e cadastra via API. Formulário
// inválido nunca chega à rede.
func (h *Handler) CriaMotorista(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "requisição inválida", http.StatusBadRequest)
		return
	}

	in := motorista.CreateInput{
		Nome:         strings.TrimSpace(r.PostFormValue("nome")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Senha:        r.PostFormValue("senha"),
		Telefone:     strings.TrimSpace(r.PostFormValue("telefone")),
		Cidade:       strings.TrimSpace(r.PostFormValue("cidade")),
		UF:           strings.ToUpper(strings.TrimSpace(r.PostFormValue("uf"))),
		Role:         motorista.Role(r.PostFormValue("role")),
		Status:       motorista.Status(r.PostFormValue("status")),
		TiposVeiculo: tiposDoForm(r.PostForm["tiposVeiculo"]),
	}

	dados, err := h.novoDadosForm(r, false)
	if err != nil {
		h.redirecionaLogin(w, r)
		return
	}
	dados.Titulo = "Novo Motorista"
	preencheForm(&dados, in.Nome, in.Email, in.Telefone, in.Cidade, in.UF, in.Role, in.Status, in.TiposVeiculo)

	if erros := in.Valida(); len(erros) > 0 {
		dados.Erros = erros
		h.render(w, "motorista_form.html", dados)
		return
	}

	if _, err := h.consultas.CriaMotorista(r.Context(), in); err != nil {
		if errors.Is(err, freteapi.ErrNaoAutorizado) {
			h.redirecionaLogin(w, r)
			return
		}
		log.Error().Err(err).Msg("falha cadastrando motorista")
		dados.Erro = mensagemErroAPI(err, in.Email)
		h.render(w, "motorista_form.html", dados)
		return
	}

	http.Redirect(w, r, "/motoristas?msg=criado", http.StatusSeeOther)
}

// EditaMotorista renderiza o formulário de edição preenchido com o
// registro atual.
func (h *Handler) EditaMotorista(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.consultas.Motorista(r.Context(), id)
	if err != nil {
		if errors.Is(err, freteapi.ErrNaoAutorizado) {
			h.redirecionaLogin(w, r)
			return
		}
		if errors.Is(err, freteapi.ErrNaoEncontrado) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("id", id).Msg("falha carregando motorista")
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	dados, err := h.novoDadosForm(r, true)
	if err != nil {
		h.redirecionaLogin(w, r)
		return
	}
	dados.Titulo = "Editar Motorista"
	dados.ID = m.ID
	dados.CreatedAt = m.CreatedAt
	dados.UpdatedAt = m.UpdatedAt
	preencheForm(&dados, m.Nome, m.Email, m.Telefone, m.Cidade, m.UF, m.Perfil, m.Status, m.TiposVeiculo)
	h.render(w, "motorista_form.html", dados)
}

// AtualizaMotorista valida e edita via API. Senha em branco mantém a
// atual; nenhum tipo de veículo marcado omite o campo do payload.
func (h *Handler) AtualizaMotorista(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "requisição inválida", http.StatusBadRequest)
		return
	}

	in := motorista.UpdateInput{
		Nome:         strings.TrimSpace(r.PostFormValue("nome")),
		Email:        strings.TrimSpace(r.PostFormValue("email")),
		Senha:        r.PostFormValue("senha"),
		Telefone:     strings.TrimSpace(r.PostFormValue("telefone")),
		Cidade:       strings.TrimSpace(r.PostFormValue("cidade")),
		UF:           strings.ToUpper(strings.TrimSpace(r.PostFormValue("uf"))),
		Role:         motorista.Role(r.PostFormValue("role")),
		Status:       motorista.Status(r.PostFormValue("status")),
		TiposVeiculo: tiposDoForm(r.PostForm["tiposVeiculo"]),
	}

	dados, err := h.novoDadosForm(r, true)
	if err != nil {
		h.redirecionaLogin(w, r)
		return
	}
	dados.Titulo = "Editar Motorista"
	dados.ID = id
	preencheForm(&dados, in.Nome, in.Email, in.Telefone, in.Cidade, in.UF, in.Role, in.Status, in.TiposVeiculo)

	if erros := in.Valida(); len(erros) > 0 {
		dados.Erros = erros
		h.render(w, "motorista_form.html", dados)
		return
	}

	if _, err := h.consultas.AtualizaMotorista(r.Context(), id, in); err != nil {
		if errors.Is(err, freteapi.ErrNaoAutorizado) {
			h.redirecionaLogin(w, r)
			return
		}
		if errors.Is(err, freteapi.ErrNaoEncontrado) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("id", id).Msg("falha atualizando motorista")
		dados.Erro = mensagemErroAPI(err, in.Email)
		h.render(w, "motorista_form.html", dados)
		return
	}

	http.Redirect(w, r, "/motoristas?msg=atualizado", http.StatusSeeOther)
}

// ExcluiMotorista remove o registro e volta para a listagem.
func (h *Handler) ExcluiMotorista(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.consultas.RemoveMotorista(r.Context(), id); err != nil {
		if errors.Is(err, freteapi.ErrNaoAutorizado) {
			h.redirecionaLogin(w, r)
			return
		}
		log.Error().Err(err).Str("id", id).Msg("falha excluindo motorista")
		http.Redirect(w, r, "/motoristas", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/motoristas?msg=excluido", http.StatusSeeOther)
}

func (h *Handler) redirecionaLogin(w http.ResponseWriter, r *http.Request) {
	middleware.ApagaCookieSessao(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// novoDadosForm monta o estado comum dos formulários. Sessão rejeitada
// na leitura do catálogo volta como erro para o handler redirecionar;
// outras falhas degradam para o formulário sem o catálogo.
func (h *Handler) novoDadosForm(r *http.Request, edicao bool) (dadosForm, error) {
	usuario, _ := session.DaContexto(r.Context())
	dados := dadosForm{
		Usuario:           usuario.Usuario,
		Edicao:            edicao,
		TiposSelecionados: map[string]bool{},
		UFs:               motorista.UFs,
		Roles:             motorista.Roles,
		Statuses:          motorista.Statuses,
	}

	tipos, err := h.consultas.VehicleTypes(r.Context())
	if err != nil {
		if errors.Is(err, freteapi.ErrNaoAutorizado) {
			return dadosForm{}, err
		}
		log.Error().Err(err).Msg("falha carregando tipos de veículo")
		return dados, nil
	}
	dados.VehicleTypes = tipos
	return dados, nil
}

func preencheForm(dados *dadosForm, nome, email, telefone, cidade, uf string, role motorista.Role, status motorista.Status, tipos []motorista.TipoVeiculo) {
	dados.Nome = nome
	dados.Email = email
	dados.Telefone = telefone
	dados.Cidade = cidade
	dados.UF = uf
	dados.Role = role
	dados.Status = status
	dados.TiposSelecionados = marcaTipos(tipos)
}

func tiposDoForm(valores []string) []motorista.TipoVeiculo {
	tipos := make([]motorista.TipoVeiculo, 0, len(valores))
	for _, v := range valores {
		v = strings.TrimSpace(v)
		if v != "" {
			tipos = append(tipos, motorista.TipoVeiculo(v))
		}
	}
	return motorista.NormalizaTipos(tipos)
}

func marcaTipos(tipos []motorista.TipoVeiculo) map[string]bool {
	marcados := make(map[string]bool, len(tipos))
	for _, t := range tipos {
		marcados[string(t)] = true
	}
	return marcados
}

// queryBase preserva filtros e ordenação nos links de paginação.
func queryBase(filtros motorista.Filtros, sort string) string {
	q := url.Values{}
	if filtros.Texto != "" {
		q.Set("texto", filtros.Texto)
	}
	if filtros.UF != "" {
		q.Set("uf", filtros.UF)
	}
	if filtros.Cidade != "" {
		q.Set("cidade", filtros.Cidade)
	}
	for _, t := range filtros.TiposVeiculo {
		q.Add("tiposVeiculo", string(t))
	}
	q.Set("sort", sort)
	return q.Encode()
}

// mensagemErroAPI traduz falhas do backend para o formulário. Conflitos
// que citam o e-mail enviado viram uma mensagem fixa para não ecoar a
// entrada do usuário.
func mensagemErroAPI(err error, email string) string {
	var apiErr *freteapi.APIError
	if errors.As(err, &apiErr) {
		if email != "" && strings.Contains(strings.ToLower(apiErr.Mensagem), strings.ToLower(email)) {
			return "Já existe um cadastro com este e-mail."
		}
		if strings.TrimSpace(apiErr.Mensagem) != "" {
			return apiErr.Mensagem
		}
	}
	return "Não foi possível salvar. Tente novamente."
}
