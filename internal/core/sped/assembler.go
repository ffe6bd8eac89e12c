package sped

import (
	"strings"

	"sped-service/internal/domain"
)

// assembler é o dono da sequência de linhas do arquivo. Os registros são
// empilhados numa ordem fixa; o tooling fiscal depende da posição dos
// blocos, não apenas das tags.
type assembler struct {
	linhas []string
}

func (a *assembler) push(linha string) {
	a.linhas = append(a.linhas, linha)
}

// montarBlocoA emite a abertura do bloco A, um par A100/A170 por linha da
// planilha na ordem original, e o totalizador A990. Diferente do 9990, o
// A990 conta de fato só as linhas do próprio bloco (prefixo |A), sem
// incluir a si mesmo.
func (a *assembler) montarBlocoA(rows []domain.SourceRow) {
	a.push(registroA001())
	for i, row := range rows {
		a.push(registroA100(row))
		a.push(registroA170(row, i))
	}

	totalBlocoA := 0
	for _, l := range a.linhas {
		if strings.HasPrefix(l, "|A") && !strings.HasPrefix(l, "|A990") {
			totalBlocoA++
		}
	}
	a.push(registroA990(totalBlocoA))
}

// montarLinhas produz a sequência completa de registros de uma conversão.
// O valor do 9990 é o tamanho da lista no momento da chamada — um retrato
// de tudo emitido até ali, não um total de bloco; o 9999 soma um a mais
// antecipando a própria linha. Ambos mantidos como o formato estabeleceu.
func montarLinhas(tomador domain.Tomador, participantes []domain.Participante, servicos []domain.Servico, rows []domain.SourceRow) []string {
	a := &assembler{}

	a.push(registro0000(tomador))
	a.push(registro0001())
	a.push(registro0005(tomador))
	a.push(registro0100())
	for _, p := range participantes {
		a.push(registro0150(p))
	}
	a.push(registro0190())
	for _, s := range servicos {
		a.push(registro0200(s))
	}
	a.push(registro9990(len(a.linhas)))

	a.montarBlocoA(rows)

	a.push(registro9999(len(a.linhas) + 1))

	return a.linhas
}
