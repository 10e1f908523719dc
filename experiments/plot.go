package experiments

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zhiyul9/traffic-rl/metrics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot rebuilds the reward plots of a finished training run from its
// progress file
func Plot(resultDir string) error {
	rows, err := metrics.ReadProgress(path.Join(resultDir, metrics.ProgressFile))
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no progress rows in %s", resultDir)
	}

	p := plot.New()
	p.Title.Text = "Training reward"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Episode reward"
	series := []struct {
		name   string
		values func(metrics.ProgressRow) float64
	}{
		{"mean", func(r metrics.ProgressRow) float64 { return r.RewardMean }},
		{"min", func(r metrics.ProgressRow) float64 { return r.RewardMin }},
		{"max", func(r metrics.ProgressRow) float64 { return r.RewardMax }},
	}
	for i, s := range series {
		points := make(plotter.XYs, len(rows))
		for j, row := range rows {
			points[j] = plotter.XY{
				X: float64(row.Iteration),
				Y: s.values(row),
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path.Join(resultDir, "reward.png")); err != nil {
		return err
	}

	if err := metrics.RenderReport(rows, path.Join(resultDir, "report.html")); err != nil {
		return err
	}
	fmt.Printf("Wrote reward.png and report.html to %s\n", resultDir)
	return nil
}

func PlotCommand() *cobra.Command {
	var resultDir string

	cmd := &cobra.Command{
		Use: "plot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Plot(resultDir)
		},
	}
	cmd.PersistentFlags().StringVar(&resultDir, "results", "results", "Directory holding the progress file of a training run")
	return cmd
}
