package sped

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"sped-service/internal/domain"
)

// Nome exato da aba consumida. Qualquer outra aba do arquivo é ignorada.
const sheetPrincipal = "principal"

// carregarLinhas lê o arquivo enviado, localiza a aba principal e devolve as
// linhas utilizáveis já tipadas. Linhas sem nota fiscal ou sem CNPJ do
// prestador são descartadas antes de qualquer processamento.
func (svc *service) carregarLinhas(planilha io.Reader, filename string) ([]domain.SourceRow, error) {
	data, err := io.ReadAll(planilha)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler o arquivo de planilha: %w", err)
	}

	grade, err := lerAbaPrincipal(data, filename)
	if err != nil {
		return nil, err
	}

	rows := mapearLinhas(grade)
	if len(rows) == 0 {
		return nil, &EmptySheetError{Filename: filename}
	}
	return rows, nil
}

// lerAbaPrincipal extrai a grade de células da aba principal. Tenta xlsx
// primeiro; se o excelize recusar o arquivo, tenta xls. As células vêm com
// valor bruto, para que datas apareçam como serial numérico e valores
// monetários mantenham o ponto decimal.
func lerAbaPrincipal(data []byte, filename string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		for _, name := range sheets {
			if name == sheetPrincipal {
				return f.GetRows(sheetPrincipal, excelize.Options{RawCellValue: true})
			}
		}
		return nil, &MissingWorksheetError{Filename: filename, Sheet: sheetPrincipal, Available: sheets}
	}

	workbook, errXls := xls.OpenReader(bytes.NewReader(data))
	if errXls != nil {
		return nil, fmt.Errorf("unsupported workbook file format")
	}

	var nomes []string
	for _, sheet := range workbook.GetSheets() {
		nomes = append(nomes, sheet.GetName())
	}
	for i, nome := range nomes {
		if nome != sheetPrincipal {
			continue
		}
		sheet, err := workbook.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
		}
		var grade [][]string
		for _, row := range sheet.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			grade = append(grade, cells)
		}
		return grade, nil
	}
	return nil, &MissingWorksheetError{Filename: filename, Sheet: sheetPrincipal, Available: nomes}
}

// mapearLinhas converte a grade crua em SourceRow, localizando as colunas
// pelo texto do cabeçalho (primeira linha). Colunas ausentes leem vazio.
func mapearLinhas(grade [][]string) []domain.SourceRow {
	if len(grade) < 2 {
		return nil
	}

	idx := make(map[string]int, len(grade[0]))
	for i, h := range grade[0] {
		idx[strings.TrimSpace(h)] = i
	}

	campo := func(row []string, nome string) string {
		i, ok := idx[nome]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	// Campos de data viram o tipo soma numérico-ou-texto: serial quando a
	// célula parseia como número, texto caso contrário.
	celulaData := func(row []string, nome string) domain.CellValue {
		raw := campo(row, nome)
		if raw == "" {
			return domain.TextCell("")
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.NumericCell(f)
		}
		return domain.TextCell(raw)
	}

	var rows []domain.SourceRow
	for _, linha := range grade[1:] {
		row := domain.SourceRow{
			CNPJPrestador: campo(linha, "CNPJ / Série SAT"),
			RazaoSocial:   campo(linha, "Razão Social"),
			NomeServico:   campo(linha, "Nome do Serviço"),
			NotaFiscal:    campo(linha, "Nota Fiscal"),
			DataEmissao:   celulaData(linha, "Data Emissão"),
			ValorTotal:    campo(linha, "Valor Total"),
			ValorDesconto: campo(linha, "Valor Desconto"),
			PIS:           campo(linha, "PIS"),
			COFINS:        campo(linha, "COFINS"),
			CSLL:          campo(linha, "CSLL"),
			IRRF:          campo(linha, "IRRF"),
			INSS:          campo(linha, "INSS"),
			ISS:           campo(linha, "ISS"),
			ValorLiquido:  campo(linha, "Valor Líquido"),
			CNPJTomador:   campo(linha, "CNPJ Tomador"),
			RazaoTomador:  campo(linha, "Razão Social Tomador"),
			PeriodoInicio: celulaData(linha, "Periodo Inicio"),
			PeriodoFim:    celulaData(linha, "Periodo Fim"),
			UF:            campo(linha, "UF"),
			Cidade:        campo(linha, "Cidade"),
			CEP:           campo(linha, "CEP"),
			Telefone:      campo(linha, "Telefone"),
			CodigoServico: campo(linha, "Código de Serviço"),
			CC:            campo(linha, "CC"),
			RegimeLucro:   campo(linha, "Regime de Lucro"),
		}
		if row.NotaFiscal == "" || row.CNPJPrestador == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
