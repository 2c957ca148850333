package routes

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/handlers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/handlers/admin"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/middlewares"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/format"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/renderer"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

type Config struct {
	DB          *gorm.DB
	Cache       cache.ComparisonCache
	Sessions    sessions.SessionStore
	Log         *logger.Logger
	Money       *format.Money
	Development bool
}

func NewRouter(cfg Config) *mux.Router {
	router := mux.NewRouter()
	rnd := renderer.New(cfg.Development)
	log := cfg.Log

	comparisonCache := cfg.Cache
	if comparisonCache == nil {
		comparisonCache = cache.NewNoop()
	}
	money := cfg.Money
	if money == nil {
		money = format.NewMoney("")
	}

	userRepo := repositories.NewUserRepository(cfg.DB)
	categoryRepo := repositories.NewCategoryRepository(cfg.DB)
	voteRepo := repositories.NewVoteRepository(cfg.DB)
	ratingRepo := repositories.NewStoreRatingRepository(cfg.DB)
	offerRepo := repositories.NewOfferRepository(cfg.DB)
	catalog := services.NewCatalogRepos(cfg.DB)

	applier := services.NewApplier(log)
	contributionSvc := services.NewContributionService(cfg.DB, catalog, applier, comparisonCache, log)
	priceSvc := services.NewPriceService(cfg.DB, catalog, comparisonCache, log)
	storeSvc := services.NewStoreService(catalog.Stores, categoryRepo, ratingRepo, catalog.Memberships, comparisonCache, log)
	productSvc := services.NewProductService(catalog.Products, log)
	categorySvc := services.NewCategoryService(categoryRepo)
	comparisonSvc := services.NewComparisonService(offerRepo, catalog.Products, comparisonCache, money, log)
	feedbackSvc := services.NewFeedbackService(voteRepo, ratingRepo, catalog.Memberships, catalog.Stores, comparisonCache, log)
	cascadeSvc := services.NewCascadeService(cfg.DB, catalog, voteRepo, ratingRepo, comparisonCache, log)

	catalogHandler := handlers.NewCatalogHandler(storeSvc, productSvc, priceSvc, comparisonSvc, rnd, log)
	contributionHandler := handlers.NewContributionHandler(contributionSvc, rnd, log)
	communityHandler := handlers.NewCommunityHandler(priceSvc, feedbackSvc, rnd, log)
	adminHandler := admin.NewAdminHandler(rnd, log, contributionSvc, priceSvc, storeSvc, productSvc, categorySvc, cascadeSvc)

	router.Use(middlewares.RequestLogger(log))
	router.Use(middlewares.IdentityMiddleware(cfg.Sessions, userRepo, log))

	user := middlewares.RequireUser(rnd, log)
	adminOnly := middlewares.AdminAuthMiddleware(rnd, log)
	withUser := func(h http.HandlerFunc) http.Handler { return user(h) }
	withAdmin := func(h http.HandlerFunc) http.Handler { return adminOnly(h) }

	router.HandleFunc("/csrf-token", handlers.CSRFToken(rnd)).Methods(http.MethodGet)

	// Public reads.
	router.HandleFunc("/stores", catalogHandler.ListStores).Methods(http.MethodGet)
	router.HandleFunc("/stores/{id}", catalogHandler.GetStore).Methods(http.MethodGet)
	router.HandleFunc("/stores/{id}/prices", catalogHandler.StorePrices).Methods(http.MethodGet)
	router.HandleFunc("/stores/{id}/ratings", communityHandler.Ratings).Methods(http.MethodGet)
	router.HandleFunc("/products", catalogHandler.ListProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}", catalogHandler.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}/prices", catalogHandler.ProductPrices).Methods(http.MethodGet)
	router.HandleFunc("/products/{id}/comparison", catalogHandler.Comparison).Methods(http.MethodGet)

	// Signed-in users.
	router.Handle("/contributions", withUser(contributionHandler.Submit)).Methods(http.MethodPost)
	router.Handle("/reports", withUser(contributionHandler.Submit)).Methods(http.MethodPost)
	router.Handle("/contributions/mine", withUser(contributionHandler.Mine)).Methods(http.MethodGet)
	router.Handle("/stores/{id}/products", withUser(communityHandler.AddProductToStore)).Methods(http.MethodPost)
	router.Handle("/stores/{id}/ratings", withUser(communityHandler.Rate)).Methods(http.MethodPost)
	router.Handle("/stores/{storeId}/products/{productId}/votes", withUser(communityHandler.Vote)).Methods(http.MethodPost)

	// Cascade deletes bound outside /admin.
	router.Handle("/stores/{id}", withAdmin(adminHandler.DeleteStore)).Methods(http.MethodDelete)
	router.Handle("/products/{id}", withAdmin(adminHandler.DeleteProduct)).Methods(http.MethodDelete)
	router.Handle("/stores/{storeId}/products/{productId}", withAdmin(adminHandler.RemoveProductFromStore)).Methods(http.MethodDelete)

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(adminOnly)

	adminRouter.HandleFunc("/contributions", adminHandler.ListContributions).Methods(http.MethodGet)
	adminRouter.HandleFunc("/contributions/bulk-reject", adminHandler.BulkReject).Methods(http.MethodPost)
	adminRouter.HandleFunc("/contributions/bulk-delete", adminHandler.BulkDelete).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/contributions/{id}", adminHandler.GetContribution).Methods(http.MethodGet)
	adminRouter.HandleFunc("/contributions/{id}", adminHandler.DeleteContribution).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/contributions/{id}/approve", adminHandler.ApproveContribution).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/contributions/{id}/reject", adminHandler.RejectContribution).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/contributions/{id}/resolve", adminHandler.ResolveContribution).Methods(http.MethodPatch)

	adminRouter.HandleFunc("/prices", adminHandler.UpsertPrice).Methods(http.MethodPost)

	adminRouter.HandleFunc("/stores", adminHandler.CreateStore).Methods(http.MethodPost)
	adminRouter.HandleFunc("/stores/{id}", adminHandler.UpdateStore).Methods(http.MethodPut)
	adminRouter.HandleFunc("/stores/{id}", adminHandler.DeleteStore).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/products", adminHandler.CreateProduct).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}", adminHandler.UpdateProduct).Methods(http.MethodPut)
	adminRouter.HandleFunc("/products/{id}", adminHandler.DeleteProduct).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/categories", adminHandler.ListCategories).Methods(http.MethodGet)
	adminRouter.HandleFunc("/categories", adminHandler.CreateCategory).Methods(http.MethodPost)

	router.NotFoundHandler = notFound(rnd)
	router.MethodNotAllowedHandler = methodNotAllowed(rnd)

	return router
}

func notFound(rnd *render.Render) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusNotFound, helpers.ErrorResponse{Error: "not found"})
	})
}

func methodNotAllowed(rnd *render.Render) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusMethodNotAllowed, helpers.ErrorResponse{Error: "method not allowed"})
	})
}
