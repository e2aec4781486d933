package server

import (
	"context"
	"net/http"
	"payment-notify-relay/internal/handler"
	"payment-notify-relay/internal/middleware"
	"payment-notify-relay/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	echo              *echo.Echo
	submissionHandler *handler.SubmissionHandler
}

func NewServer(submissionService service.SubmissionService, log logrus.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(middleware.RequestContext(log))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s := &Server{
		echo:              e,
		submissionHandler: handler.NewSubmissionHandler(submissionService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", s.submissionHandler.Health)

	s.echo.POST("/finalize", s.submissionHandler.Finalize)
	s.echo.POST("/freepack", s.submissionHandler.FreePack)

	// read only, polled by the discord bot
	s.echo.GET("/check-payment/:discordId", s.submissionHandler.CheckPayment)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
