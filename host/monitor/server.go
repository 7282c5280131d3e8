package monitor

import (
	"context"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes /metrics and /health over HTTP
type Server struct {
	addr     string
	log      zerolog.Logger
	monitor  *Monitor
	gatherer prometheus.Gatherer
	router   *echo.Echo
}

// NewServer prepares the HTTP routes
func NewServer(addr string, log zerolog.Logger, mon *Monitor, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		addr:     addr,
		log:      log.With().Str("component", "http").Logger(),
		monitor:  mon,
		gatherer: gatherer,
	}
	s.router = echo.New()
	s.router.HideBanner = true
	s.router.HidePort = true
	s.router.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	s.router.GET("/health", s.healthHandler)
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return maskAny(err)
	}
	httpSrv := http.Server{
		Handler: s.router,
	}

	errc := make(chan error, 1)
	s.log.Info().Str("address", lis.Addr().String()).Msg("Serving HTTP")
	go func() {
		if err := httpSrv.Serve(lis); err != nil && err != http.ErrServerClosed {
			errc <- maskAny(err)
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	s.log.Debug().Msg("Closing HTTP server")
	httpSrv.Shutdown(context.Background())
	return nil
}

type healthResponse struct {
	Status       string `json:"status"`
	Profile      string `json:"profile,omitempty"`
	Samples      uint64 `json:"samples"`
	Stalled      bool   `json:"stalled"`
	RPS          uint32 `json:"rps"`
	Index        int    `json:"index"`
	Duty         uint32 `json:"duty"`
	DecodeErrors uint64 `json:"decode_errors"`
}

// healthHandler reports 503 until the first sample arrives
func (s *Server) healthHandler(c echo.Context) error {
	st := s.monitor.Status()
	resp := healthResponse{
		Status:       "waiting",
		Samples:      st.Samples,
		Stalled:      st.Stalled,
		DecodeErrors: st.DecodeErrors,
	}
	if st.Profile != nil {
		resp.Profile = st.Profile.Name
	}
	if st.Last == nil {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	resp.Status = "ok"
	resp.RPS = st.Last.RPS
	resp.Index = st.Last.Index
	resp.Duty = st.Last.Duty
	return c.JSON(http.StatusOK, resp)
}
