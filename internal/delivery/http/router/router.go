package router

import (
	"net/http"

	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/handlers"
	"github.com/LavaJover/trust-marketplace-service/internal/delivery/http/middleware"
	"github.com/LavaJover/trust-marketplace-service/internal/escrow"
	"github.com/LavaJover/trust-marketplace-service/internal/infrastructure/metrics"
	cartusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/cart"
	escrowusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/escrow"
	governanceusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/governance"
	investmentusecase "github.com/LavaJover/trust-marketplace-service/internal/usecase/investment"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Investments investmentusecase.InvestmentUsecase
	Escrows     escrowusecase.EscrowUsecase
	Carts       cartusecase.CartUsecase
	Governance  governanceusecase.GovernanceUsecase
	// Ledger is set only when the chain is simulated.
	Ledger   *escrow.Ledger
	Metrics  *metrics.MarketplaceMetrics
	Gatherer prometheus.Gatherer
	Hooks    *middleware.Hooks
}

func Setup(deps Deps) *gin.Engine {
	r := gin.New()

	hooks := deps.Hooks
	if hooks == nil {
		hooks = middleware.NewHooks()
	}
	hooks.Register(middleware.AccessLog)
	hooks.Register(middleware.MetricsHook(deps.Metrics))

	r.Use(gin.Recovery())
	r.Use(hooks.Middleware())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "trust-marketplace-service",
		})
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	investmentHandler := handlers.NewInvestmentHandler(deps.Investments)
	escrowHandler := handlers.NewEscrowHandler(deps.Escrows)
	cartHandler := handlers.NewCartHandler(deps.Carts)
	governanceHandler := handlers.NewGovernanceHandler(deps.Governance)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/users", investmentHandler.CreateUser)

		projects := v1.Group("/projects")
		{
			projects.POST("", investmentHandler.CreateProject)
			projects.GET("", investmentHandler.ListProjects)
			projects.GET("/:id", investmentHandler.GetProject)
			projects.GET("/:id/investments", investmentHandler.ListProjectInvestments)
			projects.GET("/:id/escrows", escrowHandler.ListProjectEscrows)
		}

		investments := v1.Group("/investments")
		{
			investments.POST("", investmentHandler.CreateInvestment)
			investments.GET("/:id", investmentHandler.GetInvestment)
			investments.POST("/:id/transitions", investmentHandler.TransitionInvestment)
			investments.GET("/:id/escrow", escrowHandler.GetInvestmentEscrow)
			investments.POST("/:id/escrow/bind", escrowHandler.BindEscrow)
		}
		v1.GET("/investors/:id/investments", investmentHandler.ListInvestorInvestments)
		v1.GET("/escrows/:id", escrowHandler.GetEscrow)
		v1.GET("/trust-bands/:band", handlers.GetTrustBand)

		cart := v1.Group("/cart", middleware.RequireUser())
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:projectId", cartHandler.UpdateItem)
			cart.DELETE("/items/:projectId", cartHandler.RemoveItem)
			cart.POST("/checkout", cartHandler.Checkout)
		}
		orders := v1.Group("/orders", middleware.RequireUser())
		{
			orders.GET("", cartHandler.ListOrders)
			orders.GET("/:id", cartHandler.GetOrder)
		}

		proposals := v1.Group("/proposals")
		{
			proposals.POST("", governanceHandler.CreateProposal)
			proposals.POST("/:id/votes", middleware.RequireUser(), governanceHandler.CastVote)
			proposals.GET("/:id/tally", governanceHandler.GetTally)
		}

		chain := v1.Group("/chain")
		{
			chain.POST("/sync", escrowHandler.SyncChain)
			if deps.Ledger != nil {
				chainHandler := handlers.NewChainHandler(deps.Ledger)
				chain.POST("/escrows", chainHandler.CreateEscrow)
				chain.GET("/escrows/:id", chainHandler.GetEscrow)
				chain.POST("/escrows/:id/activate", chainHandler.Activate)
				chain.POST("/escrows/:id/release", chainHandler.Release)
				chain.POST("/escrows/:id/refund", chainHandler.Refund)
				chain.POST("/escrows/:id/cancel", chainHandler.Cancel)
			}
		}
	}

	return r
}
