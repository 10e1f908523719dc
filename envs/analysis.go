package envs

import (
	"os"
	"path"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/zhiyul9/traffic-rl/rl"
)

// MeanSpeedAnalyzer tracks the per episode average speed read from the
// second half of the observations.
type MeanSpeedAnalyzer struct {
	series []float64
}

var _ rl.Analyzer = &MeanSpeedAnalyzer{}

func NewMeanSpeedAnalyzer() *MeanSpeedAnalyzer {
	return &MeanSpeedAnalyzer{
		series: make([]float64, 0),
	}
}

func (a *MeanSpeedAnalyzer) Analyze(run, episode int, experiment string, trace *rl.Trace) {
	a.series = append(a.series, TraceMeanSpeed(trace))
}

// TraceMeanSpeed averages the observed mean speed over the steps of an
// episode, reading the speed half of each observation
func TraceMeanSpeed(trace *rl.Trace) float64 {
	total := float64(0)
	steps := 0
	for i := 0; i < trace.Len(); i++ {
		step, _ := trace.Get(i)
		n := len(step.NextObs) / 2
		if n == 0 {
			continue
		}
		sum := float64(0)
		for _, v := range step.NextObs[n:] {
			sum += v
		}
		total += sum / float64(n)
		steps += 1
	}
	if steps == 0 {
		return 0
	}
	return total / float64(steps)
}

func (a *MeanSpeedAnalyzer) DataSet() rl.DataSet {
	out := make([]float64, len(a.series))
	copy(out, a.series)
	return out
}

func (a *MeanSpeedAnalyzer) Reset() {
	a.series = make([]float64, 0)
}

// MeanSpeedPlotter renders the per episode mean speeds of all
// experiments of a run into a single line plot
func MeanSpeedPlotter(plotPath string) rl.Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []rl.DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Mean speed (m/s)"
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
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_mean_speed.png"))
	}
}
