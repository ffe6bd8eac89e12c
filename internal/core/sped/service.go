package sped

import (
	"io"
	"path/filepath"
	"strings"

	"sped-service/internal/domain"
)

// Service define a interface do serviço de geração de arquivos SPED.
type Service interface {
	GerarSped(planilha io.Reader, filename string) (*domain.SpedArtifact, error)
}

type service struct{}

// NewService cria uma nova instância do serviço de geração de SPED.
func NewService() Service {
	return &service{}
}

// GerarSped converte uma planilha de serviços tomados em um arquivo SPED.
// Cada chamada é independente: nenhum estado sobrevive entre conversões, e
// a falha de um arquivo nunca afeta os demais de um lote.
func (svc *service) GerarSped(planilha io.Reader, filename string) (*domain.SpedArtifact, error) {
	rows, err := svc.carregarLinhas(planilha, filename)
	if err != nil {
		return nil, err
	}

	normalizeDates(rows)

	tomador := recuperaTomador(rows)
	participantes := recuperaParticipantes(rows)
	servicos := recuperaServicosUnicos(rows)

	linhas := montarLinhas(tomador, participantes, servicos, rows)

	return &domain.SpedArtifact{
		Name:    nomeArquivoSaida(filename),
		Content: []byte(strings.Join(linhas, "\n")),
	}, nil
}

// nomeArquivoSaida troca a extensão do arquivo de origem pelo sufixo fixo.
func nomeArquivoSaida(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + "_SPED.txt"
}
