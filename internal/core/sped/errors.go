package sped

import (
	"errors"
	"fmt"

	"github.com/schollz/closestmatch"
)

// ErrNoInput indica geração disparada sem nenhuma planilha anexada.
var ErrNoInput = errors.New("nenhuma planilha carregada")

// MissingWorksheetError indica que o arquivo não possui a aba exigida.
// O erro encerra a conversão daquele arquivo apenas; a mensagem sugere a
// aba existente mais parecida quando houver.
type MissingWorksheetError struct {
	Filename  string
	Sheet     string
	Available []string
}

func (e *MissingWorksheetError) Error() string {
	if sugestao := e.closest(); sugestao != "" {
		return fmt.Sprintf("a planilha %s não possui aba %q (aba mais próxima: %q)", e.Filename, e.Sheet, sugestao)
	}
	return fmt.Sprintf("a planilha %s não possui aba %q", e.Filename, e.Sheet)
}

func (e *MissingWorksheetError) closest() string {
	if len(e.Available) == 0 {
		return ""
	}
	cm := closestmatch.New(e.Available, []int{2, 3})
	return cm.Closest(e.Sheet)
}

// EmptySheetError indica que, após o filtro de linhas utilizáveis, nada
// restou para converter.
type EmptySheetError struct {
	Filename string
}

func (e *EmptySheetError) Error() string {
	return fmt.Sprintf("a planilha %s está vazia", e.Filename)
}
