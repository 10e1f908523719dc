package remote

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/zhiyul9/traffic-rl/traffic"
)

// Server exposes a simulation over HTTP so adapters in other processes
// can drive it, with a websocket feed of frames for viewers.
type Server struct {
	Addr   string
	ctx    context.Context
	server *http.Server

	lock *sync.Mutex
	sim  *traffic.Simulation

	upgrader websocket.Upgrader
	watchers map[*websocket.Conn]bool
}

func NewServer(ctx context.Context, addr string, sim *traffic.Simulation) *Server {
	s := &Server{
		Addr: addr,
		ctx:  ctx,
		lock: new(sync.Mutex),
		sim:  sim,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		watchers: make(map[*websocket.Conn]bool),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/ids", s.handleIDs)
	r.GET("/rlids", s.handleRLIDs)
	r.GET("/state", s.handleState)
	r.GET("/light", s.handleLight)
	r.GET("/approaches", s.handleApproaches)
	r.GET("/watch", s.handleWatch)
	r.POST("/accel", s.handleAccel)
	r.POST("/speed", s.handleSpeed)
	r.POST("/step", s.handleStep)
	r.POST("/reset", s.handleReset)
	r.POST("/light/switch", s.handleLightSwitch)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}

	return s
}

func (s *Server) Start() {
	go func() {
		s.server.ListenAndServe()
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
}

func (s *Server) snapshot() StateResponse {
	resp := StateResponse{
		Time:     s.sim.Time(),
		Crashed:  s.sim.Crashed(),
		Vehicles: make([]VehicleState, 0),
	}
	for _, id := range s.sim.IDs() {
		v, ok := s.sim.Vehicle(id)
		if !ok {
			continue
		}
		resp.Vehicles = append(resp.Vehicles, VehicleState{
			ID:    v.ID,
			Kind:  v.Kind.String(),
			Route: v.Route,
			Pos:   v.Pos,
			Speed: v.Speed,
		})
	}
	return resp
}

func (s *Server) handleIDs(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, IDsResponse{IDs: s.sim.IDs()})
}

func (s *Server) handleRLIDs(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, IDsResponse{IDs: s.sim.RLIDs()})
}

func (s *Server) handleState(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) handleAccel(c *gin.Context) {
	req := AccelRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.sim.SetAccel(req.IDs, req.Accel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) handleSpeed(c *gin.Context) {
	req := SpeedRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.sim.SetSpeed(req.ID, req.Speed); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) handleStep(c *gin.Context) {
	req := StepRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	if req.Ticks <= 0 {
		req.Ticks = 1
	}
	s.lock.Lock()
	for i := 0; i < req.Ticks; i++ {
		s.sim.Advance()
	}
	frame := s.snapshot()
	s.lock.Unlock()

	s.broadcast(frame)
	c.JSON(http.StatusOK, StepResponse{Time: frame.Time, Crashed: frame.Crashed})
}

func (s *Server) handleReset(c *gin.Context) {
	s.lock.Lock()
	s.sim.Reset()
	frame := s.snapshot()
	s.lock.Unlock()

	s.broadcast(frame)
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) handleLight(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	phase, elapsed := s.sim.Phase()
	c.JSON(http.StatusOK, LightResponse{
		Phase:     phase,
		Elapsed:   elapsed,
		MaySwitch: s.sim.MaySwitch(),
	})
}

func (s *Server) handleLightSwitch(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, SwitchResponse{Switched: s.sim.SwitchPhase()})
}

func (s *Server) handleApproaches(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c.JSON(http.StatusOK, ApproachesResponse{Approaches: s.sim.Approaches()})
}

func (s *Server) handleWatch(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	s.lock.Lock()
	s.watchers[conn] = true
	s.lock.Unlock()
}

// broadcast pushes a frame to every watcher, dropping the ones that
// went away
func (s *Server) broadcast(frame StateResponse) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for conn := range s.watchers {
		if err := conn.WriteJSON(frame); err != nil {
			conn.Close()
			delete(s.watchers, conn)
		}
	}
}
