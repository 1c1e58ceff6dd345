// Command ledger prints the runs stored in the ledger of an experiment output directory.
package main

import (
	"authorship-lab/infrastructure/storage"
	"authorship-lab/repositories"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	OutputDir string `envconfig:"OUTPUT_DIR" required:"true"`
	// EXPERIMENT_ID restricts the listing to one experiment
	ExperimentID string `envconfig:"EXPERIMENT_ID"`
	// LEDGER_COLOURS highlights the best run of each experiment
	Colours bool `envconfig:"LEDGER_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}
	var experimentID *uuid.UUID
	if config.ExperimentID != "" {
		id, err := uuid.Parse(config.ExperimentID)
		if err != nil {
			log.Fatal("Invalid EXPERIMENT_ID: ", err)
		}
		experimentID = &id
	}

	db, err := badger.Open(badger.DefaultOptions(filepath.Join(config.OutputDir, storage.LedgerDir)).
		WithReadOnly(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening the ledger: ", err)
	}
	defer db.Close()

	records, err := repositories.NewRunRepository(db, slog.Default()).GetRuns(experimentID)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Experiment", "Run", "At", "Authors", "Columns", "Forest", "Margin"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	best := bestRuns(records)
	for _, record := range records {
		forest := fmt.Sprintf("%.4f", record.ForestAccuracy)
		if config.Colours && best[record.ExperimentID] == record.Run {
			forest = color.New(color.BgBlack, color.FgGreen).Render(forest)
		}
		table.Append([]string{
			record.ExperimentID.String()[:8],
			fmt.Sprintf("%d", record.Run),
			record.At.Format("2006-01-02 15:04:05"),
			strings.Join(record.TrainAuthors, ","),
			fmt.Sprintf("%d", record.Columns),
			forest,
			fmt.Sprintf("%.4f", record.MarginAccuracy),
		})
	}
	table.Render()
}

// bestRuns returns, per experiment, the run with the highest forest accuracy.
func bestRuns(records []repositories.RunRecord) map[uuid.UUID]int {
	best := make(map[uuid.UUID]int)
	scores := make(map[uuid.UUID]float64)
	for _, record := range records {
		if score, ok := scores[record.ExperimentID]; !ok || record.ForestAccuracy > score {
			scores[record.ExperimentID] = record.ForestAccuracy
			best[record.ExperimentID] = record.Run
		}
	}
	return best
}
