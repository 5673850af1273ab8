// Package server exposes the analytics views over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/views"
)

// Server routes HTTP requests to the view service.
type Server struct {
	echo *echo.Echo
	svc  *views.Service
	log  zerolog.Logger
}

// New builds the echo instance with middleware and routes registered.
func New(svc *views.Service, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recovery(log))
	e.Use(RequestID())
	e.Use(Logger(log))

	s := &Server{echo: e, svc: svc, log: log}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")
	api.GET("/options/states", s.states)
	api.GET("/options/cities", s.cities)
	api.GET("/options/codes", s.codes)

	v := api.Group("/views")
	v.GET("/variation", s.variation)
	v.GET("/procedures", s.procedures)
	v.GET("/providers", s.providers)
	v.GET("/explorer", s.explorer)
	v.GET("/navigator", s.navigator)
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

// optionList is the response of the option endpoints. A failed load still
// answers 200 with an empty list and an error notice.
type optionList struct {
	Options any              `json:"options"`
	Notices []present.Notice `json:"notices"`
}

func optionsResponse(list any, err error) optionList {
	out := optionList{Options: list, Notices: []present.Notice{}}
	if err != nil {
		out.Notices = append(out.Notices, present.Notice{Level: present.Error, Text: "Query execution error: " + err.Error()})
	}
	return out
}

func (s *Server) states(c echo.Context) error {
	list, err := s.svc.Options().States(c.Request().Context())
	return c.JSON(http.StatusOK, optionsResponse(list, err))
}

func (s *Server) cities(c echo.Context) error {
	list, err := s.svc.Options().Cities(c.Request().Context(), c.QueryParam("state"))
	return c.JSON(http.StatusOK, optionsResponse(list, err))
}

func (s *Server) codes(c echo.Context) error {
	list, err := s.svc.Options().Codes(c.Request().Context())
	return c.JSON(http.StatusOK, optionsResponse(list, err))
}

func (s *Server) variation(c echo.Context) error {
	req := views.VariationRequest{
		State:         c.QueryParam("state"),
		City:          c.QueryParam("city"),
		MinProcedures: views.DefaultMinProcedures,
		Metric:        c.QueryParam("metric"),
		Search:        c.QueryParam("search"),
	}
	if raw := c.QueryParam("min_procedures"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, &views.ValidationError{Field: "min_procedures", Message: "must be an integer"})
		}
		req.MinProcedures = n
	}
	r, err := s.svc.PriceVariation(c.Request().Context(), req)
	return s.respond(c, r, err)
}

func (s *Server) procedures(c echo.Context) error {
	r, err := s.svc.ProcedureDeepDive(c.Request().Context(), views.DeepDiveRequest{
		HospitalID:   c.QueryParam("hospital_id"),
		HospitalName: c.QueryParam("hospital_name"),
	})
	return s.respond(c, r, err)
}

func (s *Server) providers(c echo.Context) error {
	r, err := s.svc.ProviderComparison(c.Request().Context(), views.ProviderRequest{
		State: c.QueryParam("state"),
		City:  c.QueryParam("city"),
	})
	return s.respond(c, r, err)
}

func (s *Server) explorer(c echo.Context) error {
	r, err := s.svc.CostExplorer(c.Request().Context(), views.ExplorerRequest{
		Code:   c.QueryParam("code"),
		State:  c.QueryParam("state"),
		Metric: c.QueryParam("metric"),
		Search: c.QueryParam("search"),
	})
	return s.respond(c, r, err)
}

func (s *Server) navigator(c echo.Context) error {
	r, err := s.svc.Navigator(c.Request().Context(), views.NavigatorRequest{
		Code: c.QueryParam("code"),
		Zip:  c.QueryParam("zip"),
		City: c.QueryParam("city"),
	})
	return s.respond(c, r, err)
}

func (s *Server) respond(c echo.Context, r *present.Result, err error) error {
	var ve *views.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ve)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}
