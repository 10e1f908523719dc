package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zhiyul9/traffic-rl/traffic"
)

// Client drives a remote simulation through the server endpoints and
// satisfies the same simulator surface the in process kernel offers.
// It assumes it is the only driver, snapshots are cached until the next
// mutating call.
type Client struct {
	baseURL string
	http    *http.Client

	cached *StateResponse
}

var _ traffic.Simulator = &Client{}

// Dial checks the server answers and returns a client for it
func Dial(baseURL string) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	if _, err := c.snapshot(); err != nil {
		return nil, fmt.Errorf("dial %s: %w", baseURL, err)
	}
	return c, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) get(p string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + p)
	if err != nil {
		return fmt.Errorf("GET %s: %w", p, err)
	}
	defer resp.Body.Close()
	return decode(p, resp, out)
}

func (c *Client) post(p string, body, out interface{}) error {
	bs, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.baseURL+p, "application/json", bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("POST %s: %w", p, err)
	}
	defer resp.Body.Close()
	return decode(p, resp, out)
}

func decode(p string, resp *http.Response, out interface{}) error {
	if resp.StatusCode != http.StatusOK {
		eResp := errorResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&eResp); err == nil && eResp.Error != "" {
			return fmt.Errorf("%s: %s", p, eResp.Error)
		}
		return fmt.Errorf("%s: status %d", p, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) invalidate() {
	c.cached = nil
}

func (c *Client) snapshot() (*StateResponse, error) {
	if c.cached != nil {
		return c.cached, nil
	}
	state := &StateResponse{}
	if err := c.get("/state", state); err != nil {
		return nil, err
	}
	c.cached = state
	return state, nil
}

func (c *Client) Reset() error {
	c.invalidate()
	return c.post("/reset", struct{}{}, nil)
}

func (c *Client) Advance() error {
	c.invalidate()
	return c.post("/step", StepRequest{Ticks: 1}, nil)
}

func (c *Client) Time() float64 {
	s, err := c.snapshot()
	if err != nil {
		return 0
	}
	return s.Time
}

func (c *Client) Crashed() bool {
	s, err := c.snapshot()
	if err != nil {
		return false
	}
	return s.Crashed
}

func (c *Client) IDs() []string {
	s, err := c.snapshot()
	if err != nil {
		return nil
	}
	ids := make([]string, len(s.Vehicles))
	for i, v := range s.Vehicles {
		ids[i] = v.ID
	}
	return ids
}

func (c *Client) RLIDs() []string {
	s, err := c.snapshot()
	if err != nil {
		return nil
	}
	ids := make([]string, 0)
	for _, v := range s.Vehicles {
		if v.Kind == traffic.RL.String() {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

func (c *Client) Position(id string) float64 {
	s, err := c.snapshot()
	if err != nil {
		return 0
	}
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v.Pos
		}
	}
	return 0
}

func (c *Client) Speed(id string) float64 {
	s, err := c.snapshot()
	if err != nil {
		return 0
	}
	for _, v := range s.Vehicles {
		if v.ID == id {
			return v.Speed
		}
	}
	return 0
}

func (c *Client) SetAccel(ids []string, accel []float64) error {
	c.invalidate()
	return c.post("/accel", AccelRequest{IDs: ids, Accel: accel}, nil)
}

func (c *Client) SetSpeed(id string, speed float64) error {
	c.invalidate()
	return c.post("/speed", SpeedRequest{ID: id, Speed: speed}, nil)
}

// Phase mirrors the light state of the remote simulation
func (c *Client) Phase() (int, float64) {
	l := LightResponse{}
	if err := c.get("/light", &l); err != nil {
		return 0, 0
	}
	return l.Phase, l.Elapsed
}

func (c *Client) MaySwitch() bool {
	l := LightResponse{}
	if err := c.get("/light", &l); err != nil {
		return false
	}
	return l.MaySwitch
}

func (c *Client) SwitchPhase() bool {
	resp := SwitchResponse{}
	if err := c.post("/light/switch", struct{}{}, &resp); err != nil {
		return false
	}
	return resp.Switched
}

func (c *Client) Approaches() []traffic.ApproachState {
	resp := ApproachesResponse{}
	if err := c.get("/approaches", &resp); err != nil {
		return nil
	}
	return resp.Approaches
}
