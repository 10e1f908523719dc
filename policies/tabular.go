package policies

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/zhiyul9/traffic-rl/rl"
)

// Abstractor buckets a continuous observation into a table key
type Abstractor func([]float64) string

// GridAbstractor quantises every component to buckets of the given width
func GridAbstractor(width float64) Abstractor {
	return func(obs []float64) string {
		parts := make([]string, len(obs))
		for i, v := range obs {
			parts[i] = strconv.Itoa(int(math.Floor(v / width)))
		}
		return strings.Join(parts, ",")
	}
}

func actionKeys(n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = strconv.Itoa(i)
	}
	return keys
}

// EpsilonGreedy is tabular Q learning over a discrete action space with
// epsilon random exploration.
type EpsilonGreedy struct {
	qTable   *QTable
	abs      Abstractor
	alpha    float64
	discount float64
	epsilon  float64
	rand     rand.Rand
}

var _ rl.Policy = &EpsilonGreedy{}

func NewEpsilonGreedy(alpha, discount, epsilon float64, abs Abstractor) *EpsilonGreedy {
	return &EpsilonGreedy{
		qTable:   NewQTable(),
		abs:      abs,
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		rand:     *rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

func (p *EpsilonGreedy) Reset() {
	p.qTable = NewQTable()
}

func (p *EpsilonGreedy) UpdateIteration(_ int, _ *rl.Trace) {

}

func (p *EpsilonGreedy) NextAction(step int, obs []float64, space rl.Space) ([]float64, bool) {
	d, ok := space.(*rl.Discrete)
	if !ok {
		return nil, false
	}
	if p.rand.Float64() < p.epsilon {
		return []float64{float64(p.rand.Intn(d.N))}, true
	}
	maxAction, _ := p.qTable.MaxAmong(p.abs(obs), actionKeys(d.N), 0)
	if maxAction == "" {
		return nil, false
	}
	i, err := strconv.Atoi(maxAction)
	if err != nil {
		return nil, false
	}
	return []float64{float64(i)}, true
}

func (p *EpsilonGreedy) Update(step int, obs, action []float64, reward float64, nextObs []float64, done bool) {
	state := p.abs(obs)
	actionKey := strconv.Itoa(int(action[0]))
	curVal := p.qTable.Get(state, actionKey, 0)
	nextVal := float64(0)
	if !done {
		_, nextVal = p.qTable.Max(p.abs(nextObs), 0)
	}
	p.qTable.Set(state, actionKey, (1-p.alpha)*curVal+p.alpha*(reward+p.discount*nextVal))
}

func (p *EpsilonGreedy) Record(path string) error {
	return p.qTable.Record(path)
}

// Softmax is tabular Q learning that samples actions proportional to
// the exponentiated action values.
type Softmax struct {
	qTable      *QTable
	abs         Abstractor
	alpha       float64
	discount    float64
	temperature float64
}

var _ rl.Policy = &Softmax{}

func NewSoftmax(alpha, discount, temperature float64, abs Abstractor) *Softmax {
	return &Softmax{
		qTable:      NewQTable(),
		abs:         abs,
		alpha:       alpha,
		discount:    discount,
		temperature: temperature,
	}
}

func (p *Softmax) Reset() {
	p.qTable = NewQTable()
}

func (p *Softmax) UpdateIteration(_ int, _ *rl.Trace) {

}

func (p *Softmax) NextAction(step int, obs []float64, space rl.Space) ([]float64, bool) {
	d, ok := space.(*rl.Discrete)
	if !ok {
		return nil, false
	}
	state := p.abs(obs)

	vals := make([]float64, d.N)
	maxVal := math.Inf(-1)
	for i, key := range actionKeys(d.N) {
		vals[i] = p.qTable.Get(state, key, 0)
		if vals[i] > maxVal {
			maxVal = vals[i]
		}
	}

	// shifted by the maximum to keep the exponentials finite
	weights := make([]float64, d.N)
	for i, v := range vals {
		weights[i] = math.Exp((v - maxVal) / p.temperature)
	}
	i, ok := sampleuv.NewWeighted(weights, nil).Take()
	if !ok {
		return nil, false
	}
	return []float64{float64(i)}, true
}

func (p *Softmax) Update(step int, obs, action []float64, reward float64, nextObs []float64, done bool) {
	state := p.abs(obs)
	actionKey := strconv.Itoa(int(action[0]))
	curVal := p.qTable.Get(state, actionKey, 0)
	nextVal := float64(0)
	if !done {
		_, nextVal = p.qTable.Max(p.abs(nextObs), 0)
	}
	p.qTable.Set(state, actionKey, (1-p.alpha)*curVal+p.alpha*(reward+p.discount*nextVal))
}

func (p *Softmax) Record(path string) error {
	return p.qTable.Record(path)
}
