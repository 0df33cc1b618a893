package web

import (
	"fmt"
	"strings"
)

// FormataTelefone exibe números brasileiros como (11) 91111-1111;
// entradas fora do padrão voltam como vieram.
func FormataTelefone(telefone string) string {
	var digitos strings.Builder
	for _, r := range telefone {
		if r >= '0' && r <= '9' {
			digitos.WriteRune(r)
		}
	}
	d := digitos.String()

	switch len(d) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	}
	return telefone
}
