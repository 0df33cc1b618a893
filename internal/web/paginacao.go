package web

// ItemPaginacao é um item da janela de paginação: um número de página
// zero-based ou uma reticência.
type ItemPaginacao struct {
	Numero      int
	Reticencias bool
	Atual       bool
}

const maxPaginasVisiveis = 5

// JanelaPaginacao monta a janela de páginas exibida nos controles. Com
// até cinco páginas mostra todas; além disso, mantém as bordas e a
// vizinhança da página atual separadas por reticências.
func JanelaPaginacao(atual, total int) []ItemPaginacao {
	var itens []ItemPaginacao

	pagina := func(n int) {
		itens = append(itens, ItemPaginacao{Numero: n, Atual: n == atual})
	}
	reticencias := func() {
		itens = append(itens, ItemPaginacao{Reticencias: true})
	}

	switch {
	case total <= maxPaginasVisiveis:
		for i := 0; i < total; i++ {
			pagina(i)
		}
	case atual <= 2:
		for i := 0; i < 3; i++ {
			pagina(i)
		}
		reticencias()
		pagina(total - 1)
	case atual >= total-3:
		pagina(0)
		reticencias()
		for i := total - 3; i < total; i++ {
			pagina(i)
		}
	default:
		pagina(0)
		reticencias()
		pagina(atual - 1)
		pagina(atual)
		pagina(atual + 1)
		reticencias()
		pagina(total - 1)
	}

	return itens
}
