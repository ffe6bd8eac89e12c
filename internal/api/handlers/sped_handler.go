package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"sped-service/internal/api/responses"
	"sped-service/internal/core/sped"
	"sped-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// SpedHandler lida com as requisições da API de geração de arquivos SPED.
type SpedHandler struct {
	service sped.Service
}

// NewSpedHandler cria um novo handler de geração de SPED.
func NewSpedHandler(service sped.Service) *SpedHandler {
	return &SpedHandler{
		service: service,
	}
}

// HandleGerarSped converte uma única planilha e devolve o arquivo SPED como
// anexo de texto.
func (h *SpedHandler) HandleGerarSped(c *gin.Context) {
	fileHeader, err := c.FormFile("planilhaFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo de planilha (.xls, .xlsx) não encontrado ou inválido")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xls" && ext != ".xlsx" {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Extensão de arquivo de planilha não suportada: %s", ext))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo de planilha")
		return
	}
	defer file.Close()

	artifact, err := h.service.GerarSped(file, fileHeader.Filename)
	if err != nil {
		responses.Error(c, statusPorErro(err), "Erro ao gerar o arquivo SPED", err.Error())
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+artifact.Name)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", artifact.Content)
}

// HandleGerarSpedLote converte várias planilhas numa única requisição. Cada
// arquivo é processado de forma independente e na ordem enviada; a falha de
// um nunca interrompe os demais.
func (h *SpedHandler) HandleGerarSpedLote(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Formulário multipart inválido")
		return
	}

	files := form.File["planilhas"]
	if len(files) == 0 {
		responses.Error(c, http.StatusBadRequest, "Nenhuma planilha carregada", sped.ErrNoInput.Error())
		return
	}

	itens := make([]domain.BatchItem, 0, len(files))
	for _, fileHeader := range files {
		itens = append(itens, h.converterItem(fileHeader))
	}

	responses.Success(c, itens, fmt.Sprintf("%d planilha(s) processada(s)", len(files)))
}

func (h *SpedHandler) converterItem(fileHeader *multipart.FileHeader) domain.BatchItem {
	item := domain.BatchItem{Arquivo: fileHeader.Filename}

	file, err := fileHeader.Open()
	if err != nil {
		item.Status = "erro"
		item.Erro = "Não foi possível abrir o arquivo de planilha"
		return item
	}
	defer file.Close()

	artifact, err := h.service.GerarSped(file, fileHeader.Filename)
	if err != nil {
		item.Status = "erro"
		item.Erro = err.Error()
		return item
	}

	item.Status = "ok"
	item.Saida = artifact.Name
	item.Conteudo = string(artifact.Content)
	return item
}

// statusPorErro mapeia os erros de conversão conhecidos para 422; o restante
// segue como erro interno.
func statusPorErro(err error) int {
	var missing *sped.MissingWorksheetError
	var empty *sped.EmptySheetError
	if errors.As(err, &missing) || errors.As(err, &empty) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
