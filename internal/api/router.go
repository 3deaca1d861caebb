package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"gilnokie-backend/config"
	"gilnokie-backend/internal/logger"
	"gilnokie-backend/internal/mw"
)

// RouterConfig carries what the router needs besides the handler. Log defaults to the
// handler's logger.
type RouterConfig struct {
	Server config.ServerConfig
	Auth   *mw.Authenticator
	Log    *logger.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = h.log
	}

	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(log), mw.Metrics(), mw.CORS(cfg.Server.AllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := mw.NewClientLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateBurst)
	responses := mw.NewResponseCache(time.Duration(cfg.Server.CacheTTLSeconds) * time.Second)
	caching := responses.Cache()

	api := r.Group("/api")
	api.Use(mw.RateLimit(limiter))
	api.GET("/health", h.Health)

	protected := api.Group("")
	protected.Use(cfg.Auth.RequireAuth(), responses.Invalidate())
	{
		protected.GET("/customers", h.ListCustomers)
		protected.POST("/customers", h.CreateCustomer)
		protected.GET("/customers/:id", h.GetCustomer)
		protected.PATCH("/customers/:id", h.UpdateCustomer)
		protected.DELETE("/customers/:id", h.DeleteCustomer)

		protected.GET("/employees", h.ListEmployees)
		protected.POST("/employees", h.CreateEmployee)
		protected.GET("/employees/:id", h.GetEmployee)
		protected.PATCH("/employees/:id", h.UpdateEmployee)
		protected.DELETE("/employees/:id", h.DeleteEmployee)

		protected.GET("/yarn-types", h.ListYarnTypes)
		protected.POST("/yarn-types", h.CreateYarnType)
		protected.GET("/yarn-types/:id", h.GetYarnType)
		protected.PATCH("/yarn-types/:id", h.UpdateYarnType)
		protected.DELETE("/yarn-types/:id", h.DeleteYarnType)

		protected.GET("/fabric-quality", h.ListQualities)
		protected.POST("/fabric-quality", h.CreateQuality)
		protected.GET("/fabric-quality/:id", h.GetQuality)
		protected.PATCH("/fabric-quality/:id", h.UpdateQuality)
		protected.DELETE("/fabric-quality/:id", h.DeleteQuality)

		protected.GET("/machines", h.ListMachines)
		protected.POST("/machines", h.CreateMachine)
		protected.GET("/machines/:id", h.GetMachine)
		protected.PATCH("/machines/:id", h.UpdateMachine)
		protected.DELETE("/machines/:id", h.DeleteMachine)

		protected.GET("/job-cards", h.ListJobCards)
		protected.POST("/job-cards", h.CreateJobCard)
		protected.GET("/job-cards/statuses", h.JobCardStatuses)
		protected.GET("/job-cards/:id", h.GetJobCard)
		protected.GET("/job-cards/:id/progress", h.JobCardProgress)
		protected.PATCH("/job-cards/:id", h.UpdateJobCard)
		protected.DELETE("/job-cards/:id", h.DeleteJobCard)

		protected.GET("/production", h.ListProduction)
		protected.POST("/production", h.CreateProduction)
		protected.POST("/production/bulk", h.CreateProductionBatch)

		protected.GET("/yarn-stock", h.ListAllocations)
		protected.POST("/yarn-stock", h.CreateAllocation)
		protected.GET("/yarn-stock/:id", h.GetAllocation)
		protected.PUT("/yarn-stock/:id", h.UpdateAllocation)
		protected.DELETE("/yarn-stock/:id", h.DeleteAllocation)

		protected.GET("/stock-references", h.ListStockReferences)
		protected.POST("/stock-references", h.CreateStockReference)
		protected.GET("/stock-references/:id", h.GetStockReference)
		protected.PATCH("/stock-references/:id", h.UpdateStockReference)
		protected.DELETE("/stock-references/:id", h.DeleteStockReference)

		protected.GET("/packing", h.ListPackingLists)
		protected.POST("/packing", h.CreatePackingList)
		protected.GET("/packing/:id", h.GetPackingList)
		protected.PUT("/packing/:id", h.UpdatePackingList)
		protected.DELETE("/packing/:id", h.DeletePackingList)

		protected.GET("/delivery", h.ListDeliveries)
		protected.POST("/delivery", h.CreateDelivery)
		protected.GET("/delivery/:id", h.GetDelivery)
		protected.PUT("/delivery/:id", h.UpdateDelivery)
		protected.DELETE("/delivery/:id", h.DeleteDelivery)

		protected.GET("/analytics/estimate-rolls", caching, h.EstimateRolls)
		protected.GET("/analytics/roll-averages", caching, h.RollAverages)
		protected.GET("/analytics/dashboard", caching, h.Dashboard)

		protected.GET("/pdf/job-card/:id", h.JobCardPDF)
		protected.GET("/pdf/packing-list/:id", h.PackingListPDF)
		protected.GET("/pdf/delivery-note/:id", h.DeliveryNotePDF)

		protected.GET("/subscriptions", h.GetSubscription)
		protected.PUT("/subscriptions", h.PutSubscription)
		protected.DELETE("/subscriptions", h.DeleteSubscription)
		protected.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
