// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spanqa/spanqa/envconfig"
	"github.com/spanqa/spanqa/logutil"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-28s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "spanqa",
		Short:         "Train and evaluate span prediction models for question answering",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	// Commands erstellen
	trainCmd := newTrainCmd()
	inspectCmd := newInspectCmd()
	runsCmd := newRunsCmd()
	envCmd := newEnvCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	dataEnvs := []envconfig.EnvVar{
		envVars["SPANQA_DATA_DIR"],
		envVars["SPANQA_MAX_CONTEXT_LENGTH"],
		envVars["SPANQA_MAX_QUESTION_LENGTH"],
	}

	for _, cmd := range []*cobra.Command{trainCmd, inspectCmd, runsCmd} {
		switch cmd {
		case trainCmd:
			appendEnvDocs(cmd, append(dataEnvs,
				envVars["SPANQA_DEBUG"],
				envVars["SPANQA_FIGURE_DIR"],
				envVars["SPANQA_BATCH_SIZE"],
				envVars["SPANQA_EPOCHS"],
				envVars["SPANQA_LEARNING_RATE"],
				envVars["SPANQA_REPORT_EVERY"],
				envVars["SPANQA_ORDER"],
				envVars["SPANQA_SEED"],
				envVars["SPANQA_EMBEDDING_FILE"],
				envVars["SPANQA_EMBEDDING_KEY"],
				envVars["SPANQA_HISTORY_DB"],
			))
		case runsCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{envVars["SPANQA_HISTORY_DB"]})
		default:
			appendEnvDocs(cmd, dataEnvs)
		}
	}

	rootCmd.AddCommand(
		trainCmd,
		inspectCmd,
		runsCmd,
		envCmd,
	)

	return rootCmd
}
