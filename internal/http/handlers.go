package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"crm/internal/repository"
	"crm/internal/service"
	"crm/internal/validation"
)

type Server struct {
	engine    *gin.Engine
	customers *service.CustomerService
	products  *service.ProductService
	orders    *service.OrderService
}

func NewServer(customers *service.CustomerService, products *service.ProductService, orders *service.OrderService) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware("crm"))
	s := &Server{engine: r, customers: customers, products: products, orders: orders}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/api/v1")
	{
		customers := v1.Group("/customers")
		customers.POST("", s.createCustomer)
		customers.POST("/bulk", s.bulkCreateCustomers)
		customers.GET("", s.listCustomers)

		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.POST("/restock", s.restockProducts)
		products.GET(":id", s.getProduct)
		products.GET("", s.listProducts)

		orders := v1.Group("/orders")
		orders.POST("", s.createOrder)
		orders.GET(":id", s.getOrder)
		orders.GET("", s.listOrders)

		v1.GET("/stats", s.stats)
	}
}

// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Customer handlers
type createCustomerReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone"`
}

type createCustomerResp struct {
	Customer interface{} `json:"customer"`
	Message  string      `json:"message"`
}

// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param input body createCustomerReq true "Customer"
// @Success 201 {object} createCustomerResp
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /customers [post]
func (s *Server) createCustomer(c *gin.Context) {
	var req createCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	created, err := s.customers.Create(c, service.CustomerInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, createCustomerResp{Customer: created, Message: "Customer created successfully"})
}

// @Summary Bulk create customers
// @Tags customers
// @Accept json
// @Produce json
// @Param input body []createCustomerReq true "Customers"
// @Success 200 {object} service.BulkResult
// @Failure 400 {object} map[string]string
// @Router /customers/bulk [post]
func (s *Server) bulkCreateCustomers(c *gin.Context) {
	var req []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in := make([]service.CustomerInput, 0, len(req))
	for _, r := range req {
		in = append(in, service.CustomerInput{Name: r.Name, Email: r.Email, Phone: r.Phone})
	}
	// row failures are data, not an error response
	c.JSON(http.StatusOK, s.customers.BulkCreate(c, in))
}

// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {array} domain.Customer
// @Router /customers [get]
func (s *Server) listCustomers(c *gin.Context) {
	list, err := s.customers.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Product handlers
type createProductReq struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required"`
	Stock int64   `json:"stock"`
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body createProductReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.products.Create(c, service.ProductInput{
		Name:  req.Name,
		Price: decimal.NewFromFloat(req.Price),
		Stock: req.Stock,
	})
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

type restockReq struct {
	Threshold int64 `json:"threshold"`
	Increment int64 `json:"increment"`
}

type restockResp struct {
	UpdatedProducts interface{} `json:"updated_products"`
	Message         string      `json:"message"`
}

// @Summary Restock low-stock products
// @Tags products
// @Accept json
// @Produce json
// @Param input body restockReq false "Thresholds"
// @Success 200 {object} restockResp
// @Failure 400 {object} map[string]string
// @Router /products/restock [post]
func (s *Server) restockProducts(c *gin.Context) {
	req := restockReq{Threshold: 10, Increment: 10}
	// io.EOF means an empty body, which keeps the defaults; chunked
	// requests report ContentLength -1 so the body is always attempted.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	updated, err := s.products.RestockLowStock(c, req.Threshold, req.Increment)
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, restockResp{UpdatedProducts: updated, Message: "Low-stock products updated"})
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.products.GetByID(c, id)
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	list, err := s.products.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Order handlers
type createOrderReq struct {
	CustomerID int64   `json:"customer_id" binding:"required"`
	ProductIDs []int64 `json:"product_ids"`
	OrderDate  string  `json:"order_date"`
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body createOrderReq true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in := service.OrderInput{CustomerID: req.CustomerID, ProductIDs: req.ProductIDs}
	if req.OrderDate != "" {
		when, err := time.Parse(time.RFC3339, req.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_date"})
			return
		}
		in.OrderDate = &when
	}
	o, err := s.orders.Create(c, in)
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := s.orders.GetByID(c, id)
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary List orders
// @Tags orders
// @Produce json
// @Param since query string false "Only orders on or after this date (YYYY-MM-DD)"
// @Success 200 {array} domain.Order
// @Failure 400 {object} map[string]string
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	if since := c.Query("since"); since != "" {
		cutoff, err := time.Parse("2006-01-02", since)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since date"})
			return
		}
		list, err := s.orders.ListSince(c, cutoff)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}
	list, err := s.orders.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary CRM totals
// @Tags meta
// @Produce json
// @Success 200 {object} service.Stats
// @Router /stats [get]
func (s *Server) stats(c *gin.Context) {
	stats, err := s.orders.Stats(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func mapErrorToStatus(err error) int {
	var v validation.Violations
	switch {
	case errors.As(err, &v):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrInvalidThreshold),
		errors.Is(err, service.ErrInvalidIncrement),
		errors.Is(err, service.ErrEmptyProductList),
		errors.Is(err, service.ErrInvalidProductReference):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
