// Package collector bundles a minimal upload endpoint for development
// and end-to-end testing of the agent: it accepts the multipart store
// file the transfer pipeline sends and spools it to disk. Production
// deployments run their own collector; the wire contract is just "POST
// a multipart body with one part named uploadedfile, answer 200".
package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Server receives agent uploads and spools them under SpoolDir.
type Server struct {
	echo     *echo.Echo
	spoolDir string
}

// NewServer creates a collector spooling into spoolDir.
func NewServer(spoolDir string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, spoolDir: spoolDir}
	e.POST("/upload", s.handleUpload)

	return s
}

// Start serves plain HTTP on addr, for local testing behind a TLS
// terminator or on a trusted loopback.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// StartTLS serves HTTPS on addr using the same certificate the agents
// pin.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	return s.echo.StartTLS(addr, certFile, keyFile)
}

// Shutdown stops the server, waiting up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("uploadedfile")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing uploadedfile part")
	}

	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded part")
	}
	defer src.Close()

	if err := os.MkdirAll(s.spoolDir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create spool directory")
	}

	name := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(fh.Filename))
	dst, err := os.Create(filepath.Join(s.spoolDir, name))
	if err != nil {
		return errors.Wrap(err, "failed to create spool file")
	}
	defer dst.Close()

	n, err := io.Copy(dst, src)
	if err != nil {
		return errors.Wrap(err, "failed to spool upload")
	}

	log.WithFields(log.Fields{
		"file":  name,
		"bytes": n,
	}).Info("Spooled agent upload")

	return c.NoContent(http.StatusOK)
}

// requestLogger logs each request through logrus, in the same shape the
// rest of the agent logs.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var err error
			if err = next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}

			log.WithFields(log.Fields{
				"remote_ip": c.RealIP(),
				"method":    req.Method,
				"uri":       req.RequestURI,
				"status":    res.Status,
				"error":     errMsg,
				"bytes_in":  req.ContentLength,
				"bytes_out": res.Size,
				"latency":   stop.Sub(start).String(),
			}).Infof("%s %s %d", req.Method, req.RequestURI, res.Status)

			return err
		}
	}
}
