// package domain/models.go
package domain

// CellValue representa uma célula da planilha que pode chegar como número
// (serial de data do Excel) ou como texto já formatado. O normalizador
// resolve todos os campos de data para texto antes de qualquer outro
// componente ler a linha.
type CellValue struct {
	number  float64
	text    string
	numeric bool
}

// NumericCell cria uma célula numérica (serial de data).
func NumericCell(v float64) CellValue {
	return CellValue{number: v, numeric: true}
}

// TextCell cria uma célula textual.
func TextCell(s string) CellValue {
	return CellValue{text: s}
}

// IsNumeric indica se a célula carrega o valor numérico bruto.
func (c CellValue) IsNumeric() bool { return c.numeric }

// Number retorna o valor numérico bruto (zero para células textuais).
func (c CellValue) Number() float64 { return c.number }

// Text retorna o texto da célula (vazio para células numéricas).
func (c CellValue) Text() string { return c.text }

// --- Modelos da planilha de entrada ---

// SourceRow representa uma linha da aba "principal": uma nota fiscal de
// serviço tomado. Campos monetários permanecem como texto bruto; apenas os
// três campos de data usam CellValue.
type SourceRow struct {
	CNPJPrestador string
	RazaoSocial   string
	NomeServico   string
	NotaFiscal    string
	DataEmissao   CellValue
	ValorTotal    string
	ValorDesconto string
	PIS           string
	COFINS        string
	CSLL          string
	IRRF          string
	INSS          string
	ISS           string
	ValorLiquido  string
	CNPJTomador   string
	RazaoTomador  string
	PeriodoInicio CellValue
	PeriodoFim    CellValue
	UF            string
	Cidade        string
	CEP           string
	Telefone      string
	CodigoServico string
	CC            string
	RegimeLucro   string
}

// --- Entidades derivadas ---

// Tomador é a entidade tomadora dos serviços, única por planilha e derivada
// exclusivamente da primeira linha.
type Tomador struct {
	CNPJ          string
	Razao         string
	UF            string
	Cidade        string
	CEP           string
	Tel           string
	PeriodoInicio string
	PeriodoFim    string
}

// Participante é um prestador de serviço, identificado pelo CNPJ
// normalizado com 14 dígitos.
type Participante struct {
	CodPart string
	Nome    string
	CpfCnpj string
}

// Servico é uma entrada do catálogo de serviços, identificada pelo código
// bruto da planilha.
type Servico struct {
	Codigo    string
	Descricao string
}

// --- Saída ---

// SpedArtifact é o arquivo SPED gerado para uma planilha.
type SpedArtifact struct {
	Name    string
	Content []byte
}

// BatchItem é o resultado da conversão de um arquivo dentro de um lote.
type BatchItem struct {
	Arquivo  string `json:"arquivo"`
	Status   string `json:"status"`
	Saida    string `json:"saida,omitempty"`
	Conteudo string `json:"conteudo,omitempty"`
	Erro     string `json:"erro,omitempty"`
}
