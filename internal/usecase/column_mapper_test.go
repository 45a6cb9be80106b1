package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// ============ TESTES DO COLUMN MAPPER ============

func TestMapHeaderRules(t *testing.T) {
	cases := map[string]string{
		"Name":           usecase.FieldName,
		"  FULL NAME ":   usecase.FieldName,
		"Company Name":   usecase.FieldCompany,
		"Organization":   usecase.FieldCompany,
		"Org":            usecase.FieldCompany,
		"Email":          usecase.FieldEmail,
		"E-mail Address": usecase.FieldEmail,
		"Phone Number":   usecase.FieldPhone,
		"Tel":            usecase.FieldPhone,
		"Lead Status":    usecase.FieldStatus,
		"Source":         usecase.FieldSource,
		"Origin":         usecase.FieldSource,
		"Notes":          usecase.FieldNotes,
		"Org.":           usecase.FieldCompany,
		"Organic Source": usecase.FieldSource,
		"Birthday":       "",
		"":               "",
	}
	for header, want := range cases {
		assert.Equal(t, want, usecase.MapHeader(header), "header %q", header)
	}
}

// TestMapHeaderDropsUnrelatedHeaders - palavras vizinhas não formam "tel" nem "org"
func TestMapHeaderDropsUnrelatedHeaders(t *testing.T) {
	for _, header := range []string{"Date Lead Created", "Site Lead", "White Label", "Georgia Office"} {
		assert.Empty(t, usecase.MapHeader(header), "header %q", header)
	}
}

func TestMapColumnsResolvesMixedHeaders(t *testing.T) {
	cells := []entity.Cell{
		{Header: "Full Name", Value: "Ana"},
		{Header: "E-mail Address", Value: "ana@x.com"},
		{Header: "Org", Value: "Acme"},
	}

	got := usecase.MapColumns(cells)

	assert.Equal(t, map[string]string{
		"name":    "Ana",
		"email":   "ana@x.com",
		"company": "Acme",
	}, got)
}

func TestMapColumnsLastHeaderWins(t *testing.T) {
	cells := []entity.Cell{
		{Header: "First Name", Value: "Ana"},
		{Header: "Last Name", Value: "Souza"},
	}

	got := usecase.MapColumns(cells)

	assert.Equal(t, "Souza", got["name"])
	assert.Len(t, got, 1)
}

func TestMapColumnsDropsUnknownHeaders(t *testing.T) {
	got := usecase.MapColumns([]entity.Cell{{Header: "CPF", Value: "123"}, {Header: "Cidade", Value: "SP"}})
	assert.Empty(t, got)
}

// TestMapColumnsKeepsPhoneFromUnrelatedHeader - coluna de data não sobrescreve o telefone
func TestMapColumnsKeepsPhoneFromUnrelatedHeader(t *testing.T) {
	cells := []entity.Cell{
		{Header: "Name", Value: "Ana"},
		{Header: "Phone", Value: "11 99999-0000"},
		{Header: "Date Lead Created", Value: "2024-01-02"},
	}

	got := usecase.MapColumns(cells)

	assert.Equal(t, map[string]string{"name": "Ana", "phone": "11 99999-0000"}, got)
}
