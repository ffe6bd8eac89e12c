package sped

import (
	"math"
	"time"

	"sped-service/internal/domain"
)

// Offset em dias entre o serial do Excel e a época Unix. O gerador original
// armazena 25568 mas renderiza o instante UTC no fuso de Brasília (UTC−3), o
// que recua o dia civil em um; o efeito líquido é a base convencional
// 1899-12-30: serial 1 resolve para 31/12/1899. Mantido para compatibilidade
// byte a byte com os arquivos já emitidos.
const excelEpochOffsetDays = 25569

// excelSerialToTime converte um serial de data do Excel em time.Time UTC.
// A parte inteira conta dias desde a época deslocada; a parte fracionária
// vira hora do dia (com a folga de 1e-7 do formato original para absorver
// erro de ponto flutuante).
func excelSerialToTime(serial float64) time.Time {
	days := int64(math.Floor(serial - excelEpochOffsetDays))
	day := time.Unix(days*86400, 0).UTC()

	frac := serial - math.Floor(serial) + 0.0000001
	totalSeconds := int(math.Floor(86400 * frac))
	seconds := totalSeconds % 60
	totalSeconds -= seconds
	hours := totalSeconds / 3600
	minutes := (totalSeconds - hours*3600) / 60

	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, seconds, 0, time.UTC)
}

// formatDateBR renderiza a data no formato DD/MM/YYYY.
func formatDateBR(t time.Time) string {
	return t.Format("02/01/2006")
}

// normalizeRowDates resolve in place os três campos de data de uma linha.
// Campos já textuais passam intactos. A data de emissão, quando numérica, é
// limitada ao período — mas somente contra limites que também chegaram
// numéricos nesta mesma linha; um limite textual não participa do ajuste.
func normalizeRowDates(row *domain.SourceRow) {
	var periodoInicio, periodoFim time.Time
	var temInicio, temFim bool

	if row.PeriodoInicio.IsNumeric() {
		periodoInicio = excelSerialToTime(row.PeriodoInicio.Number())
		temInicio = true
		row.PeriodoInicio = domain.TextCell(formatDateBR(periodoInicio))
	}
	if row.PeriodoFim.IsNumeric() {
		periodoFim = excelSerialToTime(row.PeriodoFim.Number())
		temFim = true
		row.PeriodoFim = domain.TextCell(formatDateBR(periodoFim))
	}

	if row.DataEmissao.IsNumeric() {
		emissao := excelSerialToTime(row.DataEmissao.Number())
		if temInicio && emissao.Before(periodoInicio) {
			emissao = periodoInicio
		}
		if temFim && emissao.After(periodoFim) {
			emissao = periodoFim
		}
		row.DataEmissao = domain.TextCell(formatDateBR(emissao))
	}
}

// normalizeDates aplica normalizeRowDates a todas as linhas.
func normalizeDates(rows []domain.SourceRow) {
	for i := range rows {
		normalizeRowDates(&rows[i])
	}
}
