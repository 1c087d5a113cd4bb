package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/saralbooks/saralbooks/internal/analytics"
	analyticsdomain "github.com/saralbooks/saralbooks/internal/analytics/domain"
	"github.com/saralbooks/saralbooks/internal/audit"
	auditdomain "github.com/saralbooks/saralbooks/internal/audit/domain"
	"github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/internal/customer"
	customerdomain "github.com/saralbooks/saralbooks/internal/customer/domain"
	"github.com/saralbooks/saralbooks/internal/document"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/invoice"
	invoicedomain "github.com/saralbooks/saralbooks/internal/invoice/domain"
	"github.com/saralbooks/saralbooks/internal/ocr"
	"github.com/saralbooks/saralbooks/internal/product"
	productdomain "github.com/saralbooks/saralbooks/internal/product/domain"
	"github.com/saralbooks/saralbooks/internal/providers/pdf"
	"github.com/saralbooks/saralbooks/internal/staging"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	ocr.Module,
	pdf.Module,
	staging.Module,
	audit.Module,
	customer.Module,
	product.Module,
	document.Module,
	analytics.Module,
	invoice.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	invoiceSvc   invoicedomain.Service
	customerSvc  customerdomain.Service
	productSvc   productdomain.Service
	documentSvc  documentdomain.Service
	auditSvc     auditdomain.Service
	analyticsSvc analyticsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	InvoiceSvc   invoicedomain.Service
	CustomerSvc  customerdomain.Service
	ProductSvc   productdomain.Service
	DocumentSvc  documentdomain.Service
	AuditSvc     auditdomain.Service
	AnalyticsSvc analyticsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		invoiceSvc:   p.InvoiceSvc,
		customerSvc:  p.CustomerSvc,
		productSvc:   p.ProductSvc,
		documentSvc:  p.DocumentSvc,
		auditSvc:     p.AuditSvc,
		analyticsSvc: p.AnalyticsSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", ActorRequired())

	invoices := api.Group("/invoices")
	invoices.POST("/upload", s.UploadInvoice)
	invoices.GET("", s.ListInvoices)
	invoices.POST("/match-customer", s.MatchCustomer)
	invoices.POST("/check-duplicate", s.CheckDuplicates)
	invoices.POST("/log-duplicate-ignored", s.LogDuplicateIgnored)
	invoices.GET("/:id", s.GetInvoice)
	invoices.PUT("/:id", s.UpdateInvoice)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.POST("/:id/submit", s.SubmitInvoice)
	invoices.POST("/:id/approve", s.ApproveInvoice)
	invoices.POST("/:id/reject", s.RejectInvoice)
	invoices.POST("/:id/generate-pdf", s.GenerateInvoicePDF)
	invoices.GET("/:id/documents", s.ListInvoiceDocuments)
	invoices.GET("/:id/documents/:documentId", s.DownloadInvoiceDocument)
	invoices.GET("/:id/audit", s.InvoiceAuditTrail)

	customers := api.Group("/customers")
	customers.GET("", s.ListCustomers)
	customers.GET("/:id", s.GetCustomer)

	products := api.Group("/products")
	products.GET("", s.ListProducts)
	products.GET("/suggest", s.SuggestProducts)
	products.GET("/:id", s.GetProduct)

	api.GET("/insights", s.Insights)
	api.GET("/audit-logs", s.ListAuditLogs)
}
