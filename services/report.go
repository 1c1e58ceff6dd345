package services

import (
	"authorship-lab/domain"
	"authorship-lab/repositories"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
)

// Report sums up an experiment once every run is done.
type Report struct {
	ExperimentID uuid.UUID
	Kinds        []domain.FeatureKind
	Runs         []repositories.RunRecord
	// Scores holds the normalized rank score of every requested kind.
	Scores map[domain.FeatureKind]float64
	// Ranking lists the requested kinds, best score first.
	Ranking []domain.FeatureKind
}

// Summary is the mean and standard deviation of an accuracy over the runs that had
// test rows.
type Summary struct {
	Mean   float64
	StdDev float64
	Runs   int
}

func (r Report) ForestAccuracy() Summary {
	return r.summarize(func(record repositories.RunRecord) float64 { return record.ForestAccuracy })
}

func (r Report) MarginAccuracy() Summary {
	return r.summarize(func(record repositories.RunRecord) float64 { return record.MarginAccuracy })
}

func (r Report) summarize(accuracy func(repositories.RunRecord) float64) Summary {
	var data stats.Float64Data
	for _, record := range r.Runs {
		if len(record.TestAuthors) > 0 {
			data = append(data, accuracy(record))
		}
	}
	if len(data) == 0 {
		return Summary{}
	}
	mean, _ := data.Mean()
	stdDev, _ := data.StandardDeviation()
	return Summary{Mean: mean, StdDev: stdDev, Runs: len(data)}
}

// Print renders the feature kind importance table and the accuracy of both models.
// The best kind is highlighted when colours is set.
func (r Report) Print(w io.Writer, colours bool) {
	fmt.Fprintf(w, "Experiment %s, %d runs\n\n", r.ExperimentID, len(r.Runs))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Feature kind", "Importance"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i, kind := range r.Ranking {
		score := fmt.Sprintf("%.6f", r.Scores[kind])
		label := string(kind)
		if colours && i == 0 {
			label = color.New(color.BgBlack, color.FgGreen).Render(label)
		}
		table.Append([]string{fmt.Sprintf("%d", i+1), label, score})
	}
	table.Render()

	forest, margin := r.ForestAccuracy(), r.MarginAccuracy()
	fmt.Fprintf(w, "\nRandom forest accuracy: %.4f (stddev %.4f, %d runs)\n", forest.Mean, forest.StdDev, forest.Runs)
	fmt.Fprintf(w, "Linear margin accuracy: %.4f (stddev %.4f, %d runs)\n", margin.Mean, margin.StdDev, margin.Runs)
}
