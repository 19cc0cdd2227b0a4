package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
)

func TestPrintForms(t *testing.T) {
	var buf bytes.Buffer
	docs := []models.FormDocument{{
		ID:       "f1",
		FormName: "Listing",
		Steps:    []models.Step{{Fields: []models.Field{models.NewField(), models.NewField()}}, models.NewStep()},
	}}
	require.NoError(t, printForms(&buf, docs))
	assert.Equal(t, "ID  NAME     STEPS  FIELDS\nf1  Listing  2      2\n", buf.String())
}

func TestExportRowsToStdout(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	exportOut = ""

	err := exportRows(cmd, models.CompanyHeader, []models.Company{{ID: "c1", Name: "Acme, Ltd"}}, models.Company.Row)
	require.NoError(t, err)
	assert.Equal(t, "ID,Name,Registration number,Address,City,Phone,Email,Website\nc1,\"Acme, Ltd\",,,,,,\n", buf.String())
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"}, {"login"}, {"logout"},
		{"forms", "list"}, {"forms", "export"},
		{"employees", "export"}, {"companies", "export"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
