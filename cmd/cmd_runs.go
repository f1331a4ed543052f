// cmd_runs.go - Runs und Env Commands
// Hauptfunktionen: RunsHandler, EnvHandler
package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spanqa/spanqa/envconfig"
	"github.com/spanqa/spanqa/store"
)

// RunsHandler - Listet aufgezeichnete Laeufe oder die Validierungen eines Laufs
func RunsHandler(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("history")
	if path == "" {
		return errors.New("no history database configured, set SPANQA_HISTORY_DB or --history")
	}

	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		return showRun(cmd, st, args[0])
	}

	runs, err := st.Runs()
	if err != nil {
		return err
	}

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Status,
			strconv.Itoa(r.Epochs),
			strconv.Itoa(r.BatchSize),
			formatFloat(r.LearningRate),
			r.Order,
			formatFloat(r.BestF1),
		})
	}

	renderTable(cmd.OutOrStdout(),
		[]string{"ID", "STARTED", "STATUS", "EPOCHS", "BATCH", "LR", "ORDER", "BEST F1"}, data)
	return nil
}

func showRun(cmd *cobra.Command, st *store.Store, id string) error {
	runs, err := st.Runs()
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(runs, func(r store.RunInfo) bool { return r.ID == id }) {
		return fmt.Errorf("run %q not found", id)
	}

	vals, err := st.Validations(id)
	if err != nil {
		return err
	}

	var data [][]string
	for _, v := range vals {
		data = append(data, []string{strconv.Itoa(v.Epoch), formatFloat(v.Loss), formatFloat(v.EM), formatFloat(v.F1)})
	}

	renderTable(cmd.OutOrStdout(), []string{"EPOCH", "LOSS", "EM", "F1"}, data)
	return nil
}

// EnvHandler - Zeigt alle SPANQA_* Variablen mit aktuellem Wert
func EnvHandler(cmd *cobra.Command, _ []string) error {
	vars := envconfig.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)

	var data [][]string
	for _, name := range names {
		v := vars[name]
		data = append(data, []string{v.Name, fmt.Sprintf("%v", v.Value), v.Description})
	}

	renderTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"}, data)
	return nil
}

// newRunsCmd - Erstellt den runs Command
func newRunsCmd() *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs [ID]",
		Short: "List recorded training runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunsHandler,
	}
	runsCmd.Flags().String("history", envconfig.HistoryDB(), "SQLite file with recorded runs")
	return runsCmd
}

// newEnvCmd - Erstellt den env Command
func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show configuration environment variables",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}
