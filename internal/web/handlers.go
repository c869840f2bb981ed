package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/my2ndangelic/mapletrack/internal/model"
	"github.com/my2ndangelic/mapletrack/internal/pipeline"
)

const darkModeCookie = "darkMode"

// Handler returns the gin engine serving pages and the API.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(recovery(s.log), requestLogger(s.log))

	r.GET("/healthz", s.handleHealth)
	r.GET("/static/:file", s.handleStatic)
	r.GET("/theme", s.handleTheme)

	v1 := r.Group("/v1")
	v1.GET("/status", s.handleStatus)
	v1.GET("/events", s.handleEvents)
	v1.GET("/stream", s.handleStream)
	v1.GET("/roster", s.handleRoster)
	v1.GET("/tables/:page", s.handleTable)

	r.NoRoute(s.handlePage)
	return r
}

func (s *Service) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok\n")
}

func (s *Service) handleStatic(c *gin.Context) {
	name := c.Param("file")
	if name != LightStylesheet && name != DarkStylesheet {
		c.Status(http.StatusNotFound)
		return
	}
	data, err := Stylesheet(name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "text/css; charset=utf-8", data)
}

// handleTheme stores the theme choice in a cookie and returns to the page.
func (s *Service) handleTheme(c *gin.Context) {
	dark, _ := strconv.ParseBool(c.Query("dark"))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(darkModeCookie, strconv.FormatBool(dark), int((365 * 24 * time.Hour).Seconds()), "/", "", false, false)

	next := c.Query("next")
	if _, err := pipeline.ResolvePage(next); err != nil || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (s *Service) darkMode(c *gin.Context) bool {
	v, err := c.Cookie(darkModeCookie)
	if err != nil {
		return s.cfg.DarkMode
	}
	return v == "true"
}

func (s *Service) handlePage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}
	page, err := pipeline.ResolvePage(c.Request.URL.Path)
	if errors.Is(err, pipeline.ErrUnknownPage) {
		c.String(http.StatusNotFound, "page not found\n")
		return
	}

	data := NewPageData(page, s.Roster(), s.darkMode(c), false)
	if st := s.Status(); st.LastError != "" {
		data.Error = "Data could not be loaded: " + st.LastError
	} else if s.Roster() == nil {
		data.Error = "Data is still loading."
	}

	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		s.log.Error("render failed", zap.String("page", page.Name), zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed\n")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Service) writeJSON(c *gin.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.String(http.StatusInternalServerError, "encode failed\n")
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Service) handleStatus(c *gin.Context) {
	s.writeJSON(c, s.Status())
}

func (s *Service) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	s.writeJSON(c, events)
}

func (s *Service) handleRoster(c *gin.Context) {
	r := s.Roster()
	if r == nil {
		r = &model.Roster{}
	}
	s.writeJSON(c, r)
}

func (s *Service) handleTable(c *gin.Context) {
	page, ok := pipeline.LookupPage(c.Param("page"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
		return
	}
	r := s.Roster()
	if r == nil {
		r = &model.Roster{}
	}
	s.writeJSON(c, page.Build(r))
}

func (s *Service) handleStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	writeSSE(c.Writer, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.Status().Summary,
	})
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			writeSSE(c.Writer, ev)
			c.Writer.Flush()
		}
	}
}

func writeSSE(w io.Writer, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
