// cmd_utils.go - Hilfsfunktionen fuer die Commands
// Hauptfunktionen: renderTable, formatFloat, dataOptions
package cmd

import (
	"io"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/envconfig"
)

// renderTable - Schreibt eine linksbuendige Tabelle ohne Rahmen
func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

// formatFloat - Vier signifikante Stellen, "-" fuer NaN
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// addDataFlags - Registriert die Flags fuer Daten-Verzeichnis und Sequenzlaengen
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", envconfig.DataDir(), "Directory with the id and span files")
	cmd.Flags().Int("max-context-length", int(envconfig.MaxContextLength()), "Pad or truncate contexts to this length")
	cmd.Flags().Int("max-question-length", int(envconfig.MaxQuestionLength()), "Pad or truncate questions to this length")
}

// dataOptions - Liest Daten-Verzeichnis und Ladeoptionen aus den Flags
func dataOptions(cmd *cobra.Command, pad int32) (string, dataset.Options, error) {
	dir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return "", dataset.Options{}, err
	}
	contextLength, err := cmd.Flags().GetInt("max-context-length")
	if err != nil {
		return "", dataset.Options{}, err
	}
	questionLength, err := cmd.Flags().GetInt("max-question-length")
	if err != nil {
		return "", dataset.Options{}, err
	}

	return dir, dataset.Options{
		ContextLength:  contextLength,
		QuestionLength: questionLength,
		Pad:            pad,
	}, nil
}
