// cmd_train.go - Train Command
// Hauptfunktionen: TrainHandler, newTrainCmd
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/spanqa/spanqa/batch"
	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/embedding"
	"github.com/spanqa/spanqa/envconfig"
	"github.com/spanqa/spanqa/model/baseline"
	"github.com/spanqa/spanqa/plot"
	"github.com/spanqa/spanqa/store"
	"github.com/spanqa/spanqa/train"
)

// seedStream ist der zweite PCG-Startwert, damit gleiche Seeds gleiche Laeufe ergeben
const seedStream = 0x9e3779b97f4a7c15

// TrainHandler - Laedt Word-Vektoren und Daten und trainiert das Baseline-Modell
func TrainHandler(cmd *cobra.Command, _ []string) (err error) {
	flags := cmd.Flags()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	epochs, _ := flags.GetInt("epochs")
	batchSize, _ := flags.GetInt("batch-size")
	reportEvery, _ := flags.GetInt("report-every")
	learningRate, _ := flags.GetFloat64("learning-rate")
	figureDir, _ := flags.GetString("figure-dir")
	historyPath, _ := flags.GetString("history")
	orderName, _ := flags.GetString("order")

	order, err := batch.ParseOrder(orderName)
	if err != nil {
		return err
	}

	seed := envconfig.Seed()
	if flags.Changed("seed") {
		seed, _ = flags.GetUint64("seed")
	}

	dir, _ := flags.GetString("data-dir")
	embeddingFile := envconfig.EmbeddingFile()
	if !filepath.IsAbs(embeddingFile) {
		embeddingFile = filepath.Join(dir, embeddingFile)
	}
	table, err := embedding.Load(embeddingFile, envconfig.EmbeddingKey())
	if err != nil {
		return fmt.Errorf("load word vectors: %w", err)
	}
	pad, err := table.AppendPadding()
	if err != nil {
		return err
	}

	dir, opts, err := dataOptions(cmd, int32(pad))
	if err != nil {
		return err
	}
	trainSplit, valSplit, err := dataset.Load(ctx, dir, opts)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	rng := rand.New(rand.NewPCG(seed, seed^seedStream))
	model, err := baseline.New(table, opts.ContextLength, learningRate, rng)
	if err != nil {
		return err
	}

	options := []train.Option{train.WithPlotter(&plot.Recorder{Dir: figureDir})}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		options = append(options, train.WithProgress(os.Stderr))
	}

	if historyPath != "" {
		var (
			st  *store.Store
			run *store.Run
		)
		if st, err = store.Open(historyPath); err != nil {
			return err
		}
		defer st.Close()

		run, err = st.BeginRun(store.RunConfig{
			Epochs:       epochs,
			BatchSize:    batchSize,
			LearningRate: learningRate,
			Order:        order.String(),
			Seed:         seed,
			DataDir:      dir,
		})
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, run.Finish(err))
		}()

		slog.Info("recording run", "id", run.ID, "history", historyPath)
		options = append(options, train.WithObserver(run))
	}

	loop, err := train.New(model, trainSplit, valSplit, train.Options{
		Epochs:      epochs,
		BatchSize:   batchSize,
		ReportEvery: reportEvery,
		Order:       order,
		Rand:        rng,
	}, options...)
	if err != nil {
		return err
	}

	history, err := loop.Run(ctx)
	if err != nil {
		return err
	}

	if n := len(history.ValF1); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "validation after %d epochs: loss %s  EM %s  F1 %s\n", n,
			formatFloat(history.ValLoss[n-1]), formatFloat(history.ValEM[n-1]), formatFloat(history.ValF1[n-1]))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "charts written to %s\n", figureDir)
	return nil
}

// newTrainCmd - Erstellt den train Command
func newTrainCmd() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train the baseline span model",
		Args:  cobra.NoArgs,
		RunE:  TrainHandler,
	}

	addDataFlags(trainCmd)
	trainCmd.Flags().String("figure-dir", envconfig.FigureDir(), "Directory for the training charts")
	trainCmd.Flags().Int("epochs", int(envconfig.Epochs()), "Passes over the training split")
	trainCmd.Flags().Int("batch-size", int(envconfig.BatchSize()), "Samples per training step")
	trainCmd.Flags().Int("report-every", int(envconfig.ReportEvery()), "Steps averaged into one metric snapshot")
	trainCmd.Flags().Float64("learning-rate", envconfig.LearningRate(), "Gradient step size")
	trainCmd.Flags().String("order", envconfig.Order(), "Order of the first pass (sequential, by-length, random)")
	trainCmd.Flags().Uint64("seed", 0, "Seed for batch shuffling (default: SPANQA_SEED or time based)")
	trainCmd.Flags().String("history", envconfig.HistoryDB(), "SQLite file that records the run")

	return trainCmd
}
