package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"customer-api/internal/domain"
	"customer-api/internal/metrics"
	"customer-api/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	customers service.CustomerService
	users     service.UserService
	exports   service.ExportService
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewHandler builds the API. An empty jwtSecret leaves customer routes open.
func NewHandler(
	customers service.CustomerService,
	users service.UserService,
	exports service.ExportService,
	m *metrics.Metrics,
	logger *logrus.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		customers: customers,
		users:     users,
		exports:   exports,
		metrics:   m,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.requestLogger(), h.instrument())

	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
	}

	protected := api.Group("", h.requireAuth())
	{
		protected.GET("/customers", h.listCustomers)
		protected.GET("/customers/:id", h.getCustomer)
		protected.POST("/customers", h.createCustomer)
		protected.PUT("/customers/:id", h.updateCustomer)
		protected.DELETE("/customers/:id", h.deleteCustomer)
		protected.POST("/exports", h.createExport)
		protected.GET("/exports", h.listExports)
	}
}

type customerRequest struct {
	FirstName   *string      `json:"firstName" binding:"required"`
	LastName    *string      `json:"lastName" binding:"required"`
	DateOfBirth *domain.Date `json:"dateOfBirth" binding:"required"`
}

// Names are pointers so that a present but empty name is accepted.
func (r customerRequest) input() service.CustomerInput {
	return service.CustomerInput{
		FirstName:   *r.FirstName,
		LastName:    *r.LastName,
		DateOfBirth: *r.DateOfBirth,
	}
}

func (h *Handler) listCustomers(c *gin.Context) {
	views, err := h.customers.Search(c.Request.Context(), c.Query("search"))
	h.observe("search", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	view, err := h.customers.Get(c.Request.Context(), id)
	h.observe("get", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), req.input())
	h.observe("create", err)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Location", "/api/customers/"+customer.ID.String())
	c.Status(http.StatusNoContent)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.customers.Edit(c.Request.Context(), id, req.input())
	h.observe("edit", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	err := h.customers.Delete(c.Request.Context(), id)
	h.observe("delete", err)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ExportResponse struct {
	Location string `json:"location"`
	Key      string `json:"key"`
	Count    int    `json:"count"`
}

type ExportObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
	URL          string  `json:"url"`
}

func (h *Handler) createExport(c *gin.Context) {
	res, err := h.exports.Export(c.Request.Context())
	if err != nil {
		h.metrics.ExportsTotal.WithLabelValues("error").Inc()
		h.fail(c, err)
		return
	}
	h.metrics.ExportsTotal.WithLabelValues("ok").Inc()
	h.logger.WithFields(logrus.Fields{"location": res.Location, "count": res.Count}).Info("customer snapshot exported")

	c.JSON(http.StatusCreated, ExportResponse{Location: res.Location, Key: res.Key, Count: res.Count})
}

func (h *Handler) listExports(c *gin.Context) {
	objects, err := h.exports.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ExportObjectResponse, len(objects))
	for i, obj := range objects {
		resp[i] = ExportObjectResponse{Key: obj.Key, Size: obj.Size, URL: obj.URL}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	c.JSON(http.StatusOK, resp)
}

func customerID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors to a status code; unknown errors are logged and become 500.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrCustomerNotFound.Error()})
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) observe(operation string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCustomerNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	h.metrics.CustomerOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
