package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strconv"
)

// ProgressFile is the per run training log name
const ProgressFile = "progress.csv"

// ProgressRow is one training iteration of a run
type ProgressRow struct {
	Iteration     int
	EpisodesTotal int
	RewardMean    float64
	RewardMin     float64
	RewardMax     float64
	MeanSpeed     float64
}

var progressHeader = []string{
	"training_iteration",
	"episodes_total",
	"episode_reward_mean",
	"episode_reward_min",
	"episode_reward_max",
	"mean_speed",
}

// ProgressWriter appends iteration rows to progress.csv as they come,
// flushing after every row so a crash loses nothing.
type ProgressWriter struct {
	f *os.File
	w *csv.Writer
}

func NewProgressWriter(dir string) (*ProgressWriter, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, err
	}
	f, err := os.Create(path.Join(dir, ProgressFile))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(progressHeader); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	return &ProgressWriter{f: f, w: w}, nil
}

func (p *ProgressWriter) Append(row ProgressRow) error {
	rec := []string{
		strconv.Itoa(row.Iteration),
		strconv.Itoa(row.EpisodesTotal),
		formatFloat(row.RewardMean),
		formatFloat(row.RewardMin),
		formatFloat(row.RewardMax),
		formatFloat(row.MeanSpeed),
	}
	if err := p.w.Write(rec); err != nil {
		return err
	}
	p.w.Flush()
	return p.w.Error()
}

func (p *ProgressWriter) Close() error {
	p.w.Flush()
	return p.f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadProgress loads a progress.csv back into rows
func ReadProgress(file string) ([]ProgressRow, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", file)
	}

	rows := make([]ProgressRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(progressHeader) {
			return nil, fmt.Errorf("%s: row with %d columns", file, len(rec))
		}
		iter, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, err
		}
		episodes, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, err
		}
		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(rec[2+i], 64)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		rows = append(rows, ProgressRow{
			Iteration:     iter,
			EpisodesTotal: episodes,
			RewardMean:    vals[0],
			RewardMin:     vals[1],
			RewardMax:     vals[2],
			MeanSpeed:     vals[3],
		})
	}
	return rows, nil
}
