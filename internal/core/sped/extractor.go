package sped

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sped-service/internal/domain"
)

// normalizeCNPJ remove tudo que não for dígito e completa com zeros à
// esquerda até 14 caracteres. Entradas com mais de 14 dígitos não são
// truncadas e seguem como estão.
func normalizeCNPJ(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	for len(digits) < 14 {
		digits = "0" + digits
	}
	return digits
}

// removeSeparadores apaga as barras de uma data já formatada DD/MM/YYYY.
func removeSeparadores(data string) string {
	return strings.ReplaceAll(data, "/", "")
}

// recuperaTomador deriva o tomador da planilha. Pré-condição assumida do
// formato: todas as linhas compartilham o mesmo tomador, então somente a
// linha zero é lida. Não deve ser chamada com zero linhas.
func recuperaTomador(rows []domain.SourceRow) domain.Tomador {
	first := rows[0]
	return domain.Tomador{
		CNPJ:          normalizeCNPJ(first.CNPJTomador),
		Razao:         first.RazaoTomador,
		UF:            first.UF,
		Cidade:        first.Cidade,
		CEP:           first.CEP,
		Tel:           first.Telefone,
		PeriodoInicio: removeSeparadores(first.PeriodoInicio.Text()),
		PeriodoFim:    removeSeparadores(first.PeriodoFim.Text()),
	}
}

// recuperaParticipantes monta a lista de prestadores deduplicada pelo CNPJ
// normalizado, na ordem da primeira ocorrência. Linhas posteriores com o
// mesmo CNPJ nunca sobrescrevem o nome já registrado.
func recuperaParticipantes(rows []domain.SourceRow) []domain.Participante {
	seen := make(map[string]bool)
	var participantes []domain.Participante

	for _, row := range rows {
		cnpj := normalizeCNPJ(row.CNPJPrestador)
		if seen[cnpj] {
			continue
		}
		seen[cnpj] = true
		participantes = append(participantes, domain.Participante{
			CodPart: cnpj,
			Nome:    row.RazaoSocial,
			CpfCnpj: cnpj,
		})
	}
	return participantes
}

// recuperaServicosUnicos monta o catálogo de serviços deduplicado pelo
// código bruto, na ordem da primeira ocorrência, com a descrição em
// maiúsculas. Linhas sem código ou sem descrição não entram no catálogo,
// mas continuam gerando seus próprios registros de nota.
func recuperaServicosUnicos(rows []domain.SourceRow) []domain.Servico {
	upper := cases.Upper(language.BrazilianPortuguese)
	seen := make(map[string]bool)
	var servicos []domain.Servico

	for _, row := range rows {
		codigo := row.CodigoServico
		descricao := row.NomeServico
		if codigo == "" || descricao == "" || seen[codigo] {
			continue
		}
		seen[codigo] = true
		servicos = append(servicos, domain.Servico{
			Codigo:    codigo,
			Descricao: upper.String(descricao),
		})
	}
	return servicos
}
