// Package admin exposes the read-only operational surface: a configuration
// snapshot and lead/catalog statistics, behind a static bearer token.
package admin

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoparts_backend/internal/config"
	apphttp "autoparts_backend/internal/http"
	"autoparts_backend/internal/leads"
	"autoparts_backend/platform/logger"
)

// CatalogCounter exposes the catalog counts shown in stats.
type CatalogCounter interface {
	CountParts(ctx context.Context) (int64, error)
	CountVehicles(ctx context.Context) (int64, error)
}

// LeadCounter exposes the lead counts shown in stats.
type LeadCounter interface {
	CountByStatus(ctx context.Context) (leads.Stats, error)
}

// Module is the admin bounded context module implementing http.Module.
type Module struct {
	cfg         *config.Config
	catalogRepo CatalogCounter
	leadsRepo   LeadCounter
	log         *logger.Logger
}

// NewModule creates the admin module.
func NewModule(cfg *config.Config, catalogRepo CatalogCounter, leadsRepo LeadCounter, log *logger.Logger) *Module {
	return &Module{cfg: cfg, catalogRepo: catalogRepo, leadsRepo: leadsRepo, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "admin"
}

// RegisterRoutes mounts admin routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/admin")
	group.Use(BearerTokenMiddleware(m.cfg.AdminToken))
	group.GET("/config", m.handleGetConfig)
	group.GET("/stats", m.handleGetStats)
}

// BearerTokenMiddleware requires "Authorization: Bearer <token>" with the
// configured static admin token.
func BearerTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// handleGetConfig returns the integration configuration without secrets.
func (m *Module) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"openai_model":           m.cfg.OpenAIModel,
		"openai_configured":      m.cfg.OpenAIEnabled(),
		"whatsapp_configured":    m.cfg.WhatsAppEnabled(),
		"chassis_api_configured": m.cfg.ChassisAPIEnabled(),
		"translate_configured":   m.cfg.TranslateEnabled(),
		"queue_configured":       m.cfg.RedisURL != "",
		"sales_agents":           len(m.cfg.SalesAgents),
	})
}

// handleGetStats returns catalog and lead counts.
func (m *Module) handleGetStats(c *gin.Context) {
	ctx := c.Request.Context()

	parts, err := m.catalogRepo.CountParts(ctx)
	if err != nil {
		m.log.DatabaseError("count parts", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	vehicles, err := m.catalogRepo.CountVehicles(ctx)
	if err != nil {
		m.log.DatabaseError("count vehicles", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	leadStats, err := m.leadsRepo.CountByStatus(ctx)
	if err != nil {
		m.log.DatabaseError("count leads", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_parts":    parts,
		"total_vehicles": vehicles,
		"total_leads":    leadStats.Total,
		"new_leads":      leadStats.New,
		"assigned_leads": leadStats.Assigned,
	})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
