package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkweon/sente/internal/metrics"
	"github.com/mkweon/sente/internal/supervisor"
)

// Router exposes read-only HTTP handlers over a supervisor. It reports
// worker state and launch/stop history; it never starts or stops anything.
// Embed it into an existing gin engine with Register, or serve it alone
// via Handler/NewServer.
type Router struct {
	sup      *supervisor.Supervisor
	basePath string
}

// NewRouter creates a Router rooted at basePath (e.g. "/sente").
func NewRouter(sup *supervisor.Supervisor, basePath string) *Router {
	return &Router{sup: sup, basePath: sanitizeBase(basePath)}
}

// Register attaches the API routes to an existing gin engine.
func (rt *Router) Register(g *gin.Engine) {
	grp := g.Group(rt.basePath)
	grp.GET("/healthz", rt.handleHealthz)
	grp.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := grp.Group("/api")
	api.GET("/status", rt.handleStatusAll)
	api.GET("/status/:worker", rt.handleStatus)
	api.GET("/history", rt.handleHistory)
}

// Handler returns a standalone http.Handler serving the API.
func (rt *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	rt.Register(g)
	return g
}

func (rt *Router) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rt *Router) handleStatusAll(c *gin.Context) {
	c.JSON(http.StatusOK, rt.sup.StatusAll())
}

func (rt *Router) handleStatus(c *gin.Context) {
	name := c.Param("worker")
	st, err := rt.sup.Status(name)
	if err != nil {
		writeJSONError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (rt *Router) handleHistory(c *gin.Context) {
	limit := 50
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(c, http.StatusBadRequest, errBadLimit)
			return
		}
		limit = n
	}
	events, err := rt.sup.History(c.Request.Context(), c.Query("worker"), limit)
	if err != nil {
		writeJSONError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// NewServer starts an HTTP server for the read-only API at addr and
// returns it; callers stop it with Shutdown or Close.
func NewServer(addr, basePath string, sup *supervisor.Supervisor) (*http.Server, error) {
	rt := NewRouter(sup, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           rt.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}
