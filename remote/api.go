package remote

import "github.com/zhiyul9/traffic-rl/traffic"

// VehicleState is one vehicle in a snapshot
type VehicleState struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Route string  `json:"route"`
	Pos   float64 `json:"pos"`
	Speed float64 `json:"speed"`
}

// StateResponse is the full simulation snapshot, also the frame pushed
// to watchers
type StateResponse struct {
	Time     float64        `json:"time"`
	Crashed  bool           `json:"crashed"`
	Vehicles []VehicleState `json:"vehicles"`
}

type IDsResponse struct {
	IDs []string `json:"ids"`
}

type AccelRequest struct {
	IDs   []string  `json:"ids"`
	Accel []float64 `json:"accel"`
}

type SpeedRequest struct {
	ID    string  `json:"id"`
	Speed float64 `json:"speed"`
}

type StepRequest struct {
	Ticks int `json:"ticks"`
}

type StepResponse struct {
	Time    float64 `json:"time"`
	Crashed bool    `json:"crashed"`
}

type LightResponse struct {
	Phase     int     `json:"phase"`
	Elapsed   float64 `json:"elapsed"`
	MaySwitch bool    `json:"may_switch"`
}

type SwitchResponse struct {
	Switched bool `json:"switched"`
}

type ApproachesResponse struct {
	Approaches []traffic.ApproachState `json:"approaches"`
}
