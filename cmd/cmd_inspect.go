// cmd_inspect.go - Inspect Command
// Hauptfunktionen: InspectHandler, newInspectCmd
package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/metrics"
)

// InspectHandler - Zeigt Kennzahlen der Trainings- und Validierungsdaten
func InspectHandler(cmd *cobra.Command, _ []string) error {
	// Pad-Wert ist fuer die Kennzahlen egal, die Masken tragen die echte Laenge
	dir, opts, err := dataOptions(cmd, 0)
	if err != nil {
		return err
	}

	trainSplit, valSplit, err := dataset.Load(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}

	var data [][]string
	for _, s := range []struct {
		name  string
		split *dataset.Split
	}{
		{"train", trainSplit},
		{"val", valSplit},
	} {
		data = append(data, splitRow(s.name, s.split))
	}

	renderTable(cmd.OutOrStdout(),
		[]string{"SPLIT", "SAMPLES", "CONTEXT", "FULL", "QUESTION", "SPAN"}, data)
	return nil
}

// splitRow - Samples, mittlere Kontextlaenge, Kontexte mit voller Laenge,
// mittlere Fragelaenge und mittlere Span-Laenge
func splitRow(name string, s *dataset.Split) []string {
	contexts := floatLengths(s.Context.Lengths())
	questions := floatLengths(s.Question.Lengths())

	var full int
	for _, l := range s.Context.Lengths() {
		if l == s.Context.Length {
			full++
		}
	}

	spans := make([]float64, s.Len())
	for i := range spans {
		start, end := metrics.Argmax(s.Labels.Start[i]), metrics.Argmax(s.Labels.End[i])
		spans[i] = float64(max(start, end) - min(start, end) + 1)
	}

	return []string{
		name,
		strconv.Itoa(s.Len()),
		formatFloat(stat.Mean(contexts, nil)),
		strconv.Itoa(full),
		formatFloat(stat.Mean(questions, nil)),
		formatFloat(stat.Mean(spans, nil)),
	}
}

func floatLengths(lengths []int) []float64 {
	out := make([]float64, len(lengths))
	for i, l := range lengths {
		out[i] = float64(l)
	}
	return out
}

// newInspectCmd - Erstellt den inspect Command
func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show statistics of the training and validation data",
		Args:  cobra.NoArgs,
		RunE:  InspectHandler,
	}
	addDataFlags(inspectCmd)
	return inspectCmd
}
