package app

import (
	"context"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anurag-chatbot/au-fulfillment/internal/config"
	"github.com/anurag-chatbot/au-fulfillment/internal/sentry"
)

const rootMessage = "Anurag University Chatbot Fulfillment (ES) is running!"

// healthProbeQuery is sent to the intent detector by /health.
const healthProbeQuery = "What is the tuition fee for B.Tech?"

// intentSystemError is reported by /health when the detector fails.
const intentSystemError = "System.Error"

const healthResponseLimit = 100

func (a *Application) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		// After gin.Recovery so panics are reported before being recovered.
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(corsMiddleware(a.cfg.CORSOrigins))
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.handleRoot)
	router.HEAD("/", a.handleRoot)

	// Liveness never touches dependencies.
	router.GET("/livez", a.handleLive)
	router.HEAD("/livez", a.handleLive)
	router.GET("/readyz", a.handleReady)
	router.HEAD("/readyz", a.handleReady)
	router.GET("/health", a.handleHealth)

	router.POST("/chat", a.handler.HandleChat)
	router.POST("/webhook", a.handler.HandleFulfillment)
	if a.line != nil {
		router.POST("/line/callback", a.line.Handle)
	}

	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})),
	)

	return router
}

func (a *Application) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": rootMessage, "status": "OK"})
}

func (a *Application) handleLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// handleReady reports 200 only when the store answers a ping and the
// knowledge corpus has been loaded.
func (a *Application) handleReady(c *gin.Context) {
	storeStatus := a.storeStatus(c.Request.Context())
	corpusReady := a.knowledge.Ready()

	status := http.StatusOK
	body := gin.H{
		"status": "ready",
		"store":  storeStatus,
		"corpus": corpusStatus(corpusReady),
	}
	if storeStatus != "connected" || !corpusReady {
		status = http.StatusServiceUnavailable
		body["status"] = "not ready"
	}
	c.JSON(status, body)
}

// handleHealth reports feature status and runs one intent detection. It
// always answers 200; the body says what is degraded.
func (a *Application) handleHealth(c *gin.Context) {
	ctx := c.Request.Context()

	status := "healthy"
	provider := "none"
	if a.detector == nil {
		status = "no_credentials"
	} else {
		provider = a.detector.Provider()
	}

	response, intent := a.probeDetector(ctx)

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"provider": provider,
		"nlu_test": gin.H{
			"query":    healthProbeQuery,
			"response": response,
			"intent":   intent,
		},
		"store": a.storeStatus(ctx),
		"corpus": gin.H{
			"status":  corpusStatus(a.knowledge.Ready()),
			"entries": a.knowledge.Snapshot().Len(),
		},
	})
}

func (a *Application) probeDetector(ctx context.Context) (response, intent string) {
	if a.detector == nil {
		return "None", intentSystemError
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.NLUTimeout)
	defer cancel()

	det, err := a.detector.Detect(ctx, healthProbeQuery, "en")
	if err != nil {
		a.logger.WithError(err).WarnContext(ctx, "Health probe detection failed")
		return "None", intentSystemError
	}
	if det.FulfillmentText == "" {
		return "None", det.Intent
	}
	return truncateHealthResponse(det.FulfillmentText), det.Intent
}

func (a *Application) storeStatus(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, config.ReadinessCheck)
	defer cancel()
	if err := a.store.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "connected"
}

func corpusStatus(ready bool) string {
	if ready {
		return "loaded"
	}
	return "loading"
}

func truncateHealthResponse(s string) string {
	r := []rune(s)
	if len(r) > healthResponseLimit {
		r = r[:healthResponseLimit]
	}
	return string(r) + "..."
}
