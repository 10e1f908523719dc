package rl

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// EpisodeReturnAnalyzer collects the undiscounted return of every episode
type EpisodeReturnAnalyzer struct {
	returns []float64
}

var _ Analyzer = &EpisodeReturnAnalyzer{}

func NewEpisodeReturnAnalyzer() *EpisodeReturnAnalyzer {
	return &EpisodeReturnAnalyzer{
		returns: make([]float64, 0),
	}
}

func (a *EpisodeReturnAnalyzer) Analyze(run, episode int, experiment string, trace *Trace) {
	a.returns = append(a.returns, trace.TotalReward())
}

func (a *EpisodeReturnAnalyzer) DataSet() DataSet {
	out := make([]float64, len(a.returns))
	copy(out, a.returns)
	return out
}

func (a *EpisodeReturnAnalyzer) Reset() {
	a.returns = make([]float64, 0)
}

// ReturnPlotter renders the per episode returns of all experiments of a
// run into a single line plot
func ReturnPlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Episode return"
		for i := 0; i < len(names); i++ {
			series := ds[i].([]float64)
			points := make(plotter.XYs, len(series))
			for j, v := range series {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
			fmt.Printf("Mean return: %.2f for experiment: %s\n", stat.Mean(series, nil), names[i])
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_returns.png"))
	}
}
