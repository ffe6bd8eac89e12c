package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sped-service/internal/api/handlers"
	"sped-service/internal/api/responses"
	"sped-service/internal/core/sped"
	"sped-service/internal/domain"
)

func novoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	responses.InitLogger("error")

	handler := handlers.NewSpedHandler(sped.NewService())
	router := gin.New()
	router.POST("/api/v1/sped/gerar", handler.HandleGerarSped)
	router.POST("/api/v1/sped/gerar-lote", handler.HandleGerarSpedLote)
	return router
}

func planilhaValida(t *testing.T, aba string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", aba))

	linhas := [][]interface{}{
		{"CNPJ / Série SAT", "Razão Social", "Nome do Serviço", "Nota Fiscal",
			"Data Emissão", "Valor Total", "Valor Desconto", "PIS", "COFINS", "CSLL",
			"IRRF", "INSS", "ISS", "Valor Líquido", "CNPJ Tomador",
			"Razão Social Tomador", "Periodo Inicio", "Periodo Fim", "UF", "Cidade",
			"CEP", "Telefone", "Código de Serviço", "CC", "Regime de Lucro"},
		{"12.345.678/0001-95", "PRESTADOR UM", "Consultoria", "123",
			45300.0, "1000", "100", "16.5", "76", "",
			"15", "", "50", "900", "08.267.412/0001-02",
			"EMPRESA ALFA LTDA", 45292.0, 45322.0, "SP", "São Paulo",
			"03031040", "1111331304", "101", "CC1", "Lucro Real"},
	}
	for i := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(aba, cell, &linhas[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func corpoMultipart(t *testing.T, campo string, arquivos map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for nome, conteudo := range arquivos {
		fw, err := writer.CreateFormFile(campo, nome)
		require.NoError(t, err)
		_, err = fw.Write(conteudo)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHandleGerarSpedSemArquivo(t *testing.T) {
	router := novoRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sped/gerar", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleGerarSpedExtensaoInvalida(t *testing.T) {
	router := novoRouter()

	body, contentType := corpoMultipart(t, "planilhaFile", map[string][]byte{"dados.csv": []byte("a;b")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sped/gerar", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleGerarSpedSucesso(t *testing.T) {
	router := novoRouter()

	body, contentType := corpoMultipart(t, "planilhaFile", map[string][]byte{"janeiro.xlsx": planilhaValida(t, "principal")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sped/gerar", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "attachment; filename=janeiro_SPED.txt", resp.Header().Get("Content-Disposition"))
	assert.Contains(t, resp.Body.String(), "|0000|019|0|")
	assert.Contains(t, resp.Body.String(), "|9999|")
}

func TestHandleGerarSpedAbaAusente(t *testing.T) {
	router := novoRouter()

	body, contentType := corpoMultipart(t, "planilhaFile", map[string][]byte{"janeiro.xlsx": planilhaValida(t, "dados")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sped/gerar", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestHandleGerarSpedLoteSemArquivos(t *testing.T) {
	router := novoRouter()

	body, contentType := corpoMultipart(t, "outroCampo", map[string][]byte{"x.xlsx": []byte("irrelevante")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sped/gerar-lote", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Nenhuma planilha carregada")
}

func TestHandleGerarSpedLoteFalhaIsolada(t *testing.T) {
	router := novoRouter()

	body, contentType := corpoMultipart(t, "planilhas", map[string][]byte{
		"bom.xlsx":  planilhaValida(t, "principal"),
		"ruim.xlsx": planilhaValida(t, "dados"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sped/gerar-lote", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Status string             `json:"status"`
		Data   []domain.BatchItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	require.Len(t, envelope.Data, 2)

	porArquivo := map[string]domain.BatchItem{}
	for _, item := range envelope.Data {
		porArquivo[item.Arquivo] = item
	}

	bom := porArquivo["bom.xlsx"]
	assert.Equal(t, "ok", bom.Status)
	assert.Equal(t, "bom_SPED.txt", bom.Saida)
	assert.Contains(t, bom.Conteudo, "|A100|")

	ruim := porArquivo["ruim.xlsx"]
	assert.Equal(t, "erro", ruim.Status)
	assert.Contains(t, ruim.Erro, "principal")
	assert.Empty(t, ruim.Conteudo)
}
