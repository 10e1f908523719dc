package policies

import (
	"encoding/json"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/zhiyul9/traffic-rl/rl"
	"github.com/zhiyul9/traffic-rl/util"
)

// GaussianConfig bundles the policy gradient hyper parameters
type GaussianConfig struct {
	Alpha        float64 // learning rate
	Gamma        float64 // discount
	Sigma        float64 // exploration deviation
	BaselineBeta float64 // smoothing of the return baseline
}

func DefaultGaussianConfig() GaussianConfig {
	return GaussianConfig{
		Alpha:        0.001,
		Gamma:        0.999,
		Sigma:        0.5,
		BaselineBeta: 0.05,
	}
}

// Gaussian explores a box action space with normal noise around a
// linear mean and improves the mean with the REINFORCE gradient of the
// discounted return against a moving baseline.
type Gaussian struct {
	cfg GaussianConfig

	// one weight row per action component over the features
	weights  [][]float64
	bias     []float64
	baseline float64
	episodes int

	rand rand.Rand
}

var _ rl.Policy = &Gaussian{}
var _ rl.Recorder = &Gaussian{}

func NewGaussian(cfg GaussianConfig) *Gaussian {
	return &Gaussian{
		cfg:  cfg,
		rand: *rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (g *Gaussian) Reset() {
	g.weights = nil
	g.bias = nil
	g.baseline = 0
	g.episodes = 0
}

// features scales the observation into [-1, 1] so positions and speeds
// weigh comparably
func features(obs []float64) []float64 {
	maxAbs := 1.0
	for _, v := range obs {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	f := make([]float64, len(obs))
	for i, v := range obs {
		f[i] = v / maxAbs
	}
	return f
}

// ensure sizes the parameters, entity churn changing a dimension
// restarts the approximation
func (g *Gaussian) ensure(obsDim, actDim int) {
	if len(g.weights) == actDim && (actDim == 0 || len(g.weights[0]) == obsDim) {
		return
	}
	g.weights = make([][]float64, actDim)
	for i := range g.weights {
		g.weights[i] = make([]float64, obsDim)
	}
	g.bias = make([]float64, actDim)
}

func (g *Gaussian) mean(f []float64) []float64 {
	mu := make([]float64, len(g.weights))
	for i, row := range g.weights {
		mu[i] = g.bias[i] + floats.Dot(row, f)
	}
	return mu
}

func (g *Gaussian) NextAction(step int, obs []float64, space rl.Space) ([]float64, bool) {
	box, ok := space.(*rl.Box)
	if !ok {
		return nil, false
	}
	f := features(obs)
	g.ensure(len(f), box.Dim())
	mu := g.mean(f)
	action := make([]float64, box.Dim())
	for i := range action {
		action[i] = mu[i] + g.cfg.Sigma*g.rand.NormFloat64()
	}
	return box.Clip(action), true
}

func (g *Gaussian) Update(_ int, _ []float64, _ []float64, _ float64, _ []float64, _ bool) {}

func (g *Gaussian) UpdateIteration(episode int, trace *rl.Trace) {
	if trace.Len() == 0 || len(g.weights) == 0 {
		return
	}
	epReturn := trace.Return(g.cfg.Gamma)
	if g.episodes == 0 {
		g.baseline = epReturn
	}
	adv := epReturn - g.baseline

	for i := 0; i < trace.Len(); i++ {
		step, _ := trace.Get(i)
		f := features(step.Obs)
		if len(g.weights) != len(step.Action) || len(f) != len(g.weights[0]) {
			// dimension changed mid episode
			continue
		}
		mu := g.mean(f)
		for d := range g.weights {
			grad := g.cfg.Alpha * adv * (step.Action[d] - mu[d]) / (g.cfg.Sigma * g.cfg.Sigma)
			for j, x := range f {
				g.weights[d][j] += grad * x
			}
			g.bias[d] += grad
		}
	}

	g.baseline = (1-g.cfg.BaselineBeta)*g.baseline + g.cfg.BaselineBeta*epReturn
	g.episodes += 1
}

// Baseline is the smoothed return the gradient is centered on
func (g *Gaussian) Baseline() float64 {
	return g.baseline
}

// Record dumps the parameters as json
func (g *Gaussian) Record(path string) error {
	out := map[string]interface{}{
		"weights":  g.weights,
		"bias":     g.bias,
		"baseline": g.baseline,
		"episodes": g.episodes,
		"sigma":    g.cfg.Sigma,
	}
	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return util.WriteToFile(path, string(bs))
}
