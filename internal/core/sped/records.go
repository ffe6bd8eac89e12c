package sped

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sped-service/internal/domain"
)

// Rótulo de regime que liga o indicador de geração de crédito no A100.
const regimeLucroReal = "Lucro Real"

// parseNumber interpreta um campo monetário como o parseFloat original:
// aceita o maior prefixo numérico válido da string e devolve NaN quando não
// há prefixo algum. Conteúdo inválido não é erro; o NaN segue adiante.
func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)

	end := 0
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		end = i
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			end = i
		}
	}
	if end > 0 && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		digitStart := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > digitStart {
			end = j
		}
	}
	if end == 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func mathRound(val float64, precision int) float64 {
	pow := 1.0
	for i := 0; i < precision; i++ {
		pow *= 10
	}
	if val >= 0 {
		return float64(int64(val*pow+0.5)) / pow
	}
	return float64(int64(val*pow-0.5)) / pow
}

func formatTwoDecimalsComma(val float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", val), ".", ",", 1)
}

// formatValorCampo renderiza um campo monetário: vazio vira o literal "0"
// (sem casas decimais), presente vira duas casas com vírgula. Valor não
// numérico rende "NaN" no arquivo, exatamente como o formato consagrou.
func formatValorCampo(raw string) string {
	if raw == "" {
		return "0"
	}
	v := parseNumber(raw)
	if math.IsNaN(v) {
		return "NaN"
	}
	return formatTwoDecimalsComma(mathRound(v, 2))
}

// formatNumero renderiza um número derivado na forma mínima com ponto
// decimal, como os campos de PIS/COFINS líquidos saem no arquivo.
func formatNumero(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// --- Registros do bloco 0 ---

func registro0000(t domain.Tomador) string {
	return fmt.Sprintf("|0000|019|0|%s|%s|%s|%s||%s|||||A|1|",
		t.PeriodoInicio, t.PeriodoFim, t.Razao, t.CNPJ, t.UF)
}

func registro0001() string {
	return "|0001|0|"
}

func registro0005(t domain.Tomador) string {
	return fmt.Sprintf("|0005|%s|%s||%s|%s|%s||",
		t.Razao, t.Tel, t.Cidade, t.UF, t.CEP)
}

// registro0100 é o registro do contabilista, com conteúdo integralmente
// fixo no formato.
func registro0100() string {
	return "|0100|EDUARDO MESQUITA AMARAL|08955291817|222140|08267412000102|03031040||435||Canindé|1111331304|1111331304|eduardo@contabilaxioma.com.br|3550308|"
}

func registro0150(p domain.Participante) string {
	return fmt.Sprintf("|0150|%s|%s|%s|||", p.CodPart, p.Nome, p.CpfCnpj)
}

func registro0190() string {
	return "|0190|UN|UNIDADE|"
}

func registro0200(s domain.Servico) string {
	return fmt.Sprintf("|0200|%s|%s|||UN|09|00000000||00||||", s.Codigo, s.Descricao)
}

func registro9990(totalLinhas int) string {
	return fmt.Sprintf("|9990|%d|", totalLinhas)
}

// --- Registros do bloco A ---

func registroA001() string {
	return "|A001|0|"
}

func registroA100(row domain.SourceRow) string {
	emissao := removeSeparadores(row.DataEmissao.Text())

	pis := formatValorCampo(row.PIS)
	cofins := formatValorCampo(row.COFINS)
	csll := formatValorCampo(row.CSLL)
	irrf := formatValorCampo(row.IRRF)
	inss := formatValorCampo(row.INSS)
	iss := formatValorCampo(row.ISS)
	valorTotal := formatValorCampo(row.ValorTotal)
	valorDesconto := formatValorCampo(row.ValorDesconto)

	geraCredito := 0
	if row.RegimeLucro == regimeLucroReal {
		geraCredito = 1
	}

	// Consolidação de DARF: o indicador liga com qualquer IRRF presente e o
	// código acompanha como "1"; sem IRRF o código fica vazio, não zero.
	juntaDarf := 0
	codDarf := ""
	if row.IRRF != "" {
		juntaDarf = 1
		codDarf = "1"
	}

	// Valores líquidos calculados sobre os números brutos, antes de qualquer
	// arredondamento de apresentação.
	valorTotalPIS := "0"
	if row.PIS != "" {
		valorTotalPIS = formatNumero(parseNumber(row.PIS) - parseNumber(row.ValorDesconto))
	}
	valorTotalCOFINS := "0"
	if row.COFINS != "" {
		valorTotalCOFINS = formatNumero(parseNumber(row.COFINS) - parseNumber(row.ValorDesconto))
	}

	return fmt.Sprintf("|A100|0|1|%s|00|||%s||%s|%s|%s||%s|%s|%s|%s|%s|||%s|||||||NFSE||%s|||||||%s|%s|%s|||||%d|||||%d|%s|",
		normalizeCNPJ(row.CNPJPrestador), row.NotaFiscal, emissao, emissao,
		valorTotal, valorDesconto, pis, valorTotalPIS, cofins, valorTotalCOFINS,
		iss, row.CC, irrf, csll, inss, geraCredito, juntaDarf, codDarf)
}

func registroA170(row domain.SourceRow, index int) string {
	return fmt.Sprintf("|A170|%d|%s|%s|%s|%s|%s|%s|%s|%s|%s|0|0|%s|",
		index+1, row.CodigoServico, row.NomeServico,
		formatValorCampo(row.ValorTotal),
		formatValorCampo(row.PIS),
		formatValorCampo(row.COFINS),
		formatValorCampo(row.CSLL),
		formatValorCampo(row.IRRF),
		formatValorCampo(row.INSS),
		formatValorCampo(row.ISS),
		formatValorCampo(row.ValorLiquido))
}

func registroA990(totalBlocoA int) string {
	return fmt.Sprintf("|A990|%d|", totalBlocoA)
}

// --- Encerramento ---

func registro9999(totalLinhas int) string {
	return fmt.Sprintf("|9999|%d|", totalLinhas)
}
