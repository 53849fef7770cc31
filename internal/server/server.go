// Package server exposes the layout engine and the SVG renderer over HTTP.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"gantt2svg/internal/cache"
	"gantt2svg/internal/config"
	"gantt2svg/internal/gantt"
	"gantt2svg/internal/input"
	"gantt2svg/internal/svg"
)

// maxBodySize caps request bodies.
const maxBodySize = 4 << 20

// MIMEImageSVG is the content type of rendered charts.
const MIMEImageSVG = "image/svg+xml"

// Service holds what the handlers share.
type Service struct {
	cfg      config.Config
	renderer *svg.Renderer
	cache    cache.Cache
	log      *log.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithCache serves renders through c.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithClock replaces the wall clock used to derive today.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. logger may be nil.
func NewService(cfg config.Config, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Service{
		cfg:      cfg,
		renderer: svg.New(cfg),
		log:      logger,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// New returns an Echo instance with the middleware and routes installed.
func New(s *Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.Use(RequestLogger(s.log))
	Register(e, s)
	return e
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, s *Service) {
	e.POST("/api/layout", postLayout(s))
	e.POST("/api/render", postRender(s))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

// request is a decoded and validated body.
type request struct {
	body    []byte
	project input.Project
	in      gantt.Input
}

func (s *Service) decode(c echo.Context) (request, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodySize))
	if err != nil {
		return request{}, echo.NewHTTPError(http.StatusBadRequest, "unable to read body")
	}
	p, err := input.DecodeJSON(body)
	if err != nil {
		return request{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	in, err := p.Input(s.now().UTC())
	if err != nil {
		return request{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return request{body: body, project: p, in: in}, nil
}

func postLayout(s *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := s.decode(c)
		if err != nil {
			return err
		}
		chart := gantt.Layout(req.in, s.cfg.LayoutOptions(requestLogger(c, s.log)))
		return c.JSON(http.StatusOK, chart)
	}
}

func postRender(s *Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := s.decode(c)
		if err != nil {
			return err
		}
		logger := requestLogger(c, s.log)
		ctx := c.Request().Context()

		var key string
		if s.cache != nil {
			key = s.cacheKey(req)
			doc, ok, err := s.cache.Get(ctx, key)
			if err != nil {
				logger.WithError(err).Warn("render cache unavailable")
			}
			if ok {
				c.Response().Header().Set("X-Cache", "hit")
				return c.Blob(http.StatusOK, MIMEImageSVG, []byte(doc))
			}
		}

		chart := gantt.Layout(req.in, s.cfg.LayoutOptions(logger))
		doc := s.renderer.Render(chart, req.in.Tasks)

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, doc); err != nil {
				logger.WithError(err).Warn("render cache unavailable")
			}
			c.Response().Header().Set("X-Cache", "miss")
		}
		return c.Blob(http.StatusOK, MIMEImageSVG, []byte(doc))
	}
}

// cacheKey hashes the re-encoded project so formatting differences in the
// body map to one entry, together with the effective today and the config.
func (s *Service) cacheKey(req request) string {
	canonical, err := sonic.ConfigStd.Marshal(req.project)
	if err != nil {
		canonical = req.body
	}
	return cache.Key(
		canonical,
		[]byte(req.in.Today.Format("2006-01-02")),
		[]byte(s.cfg.Fingerprint()),
	)
}

// sonicSerializer implements echo.JSONSerializer with sonic.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}
	return nil
}
