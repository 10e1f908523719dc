package metrics

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderReport writes an interactive reward report of a training run
// next to its progress.csv.
func RenderReport(rows []ProgressRow, file string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Training reward",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	iterations := make([]string, len(rows))
	for i, r := range rows {
		iterations[i] = fmt.Sprintf("%d", r.Iteration)
	}
	line = line.SetXAxis(iterations)

	series := map[string]func(ProgressRow) float64{
		"reward_mean": func(r ProgressRow) float64 { return r.RewardMean },
		"reward_min":  func(r ProgressRow) float64 { return r.RewardMin },
		"reward_max":  func(r ProgressRow) float64 { return r.RewardMax },
	}
	for _, name := range []string{"reward_mean", "reward_min", "reward_max"} {
		items := make([]opts.LineData, len(rows))
		for i, r := range rows {
			items[i] = opts.LineData{Value: series[name](r)}
		}
		line.AddSeries(name, items)
	}

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
