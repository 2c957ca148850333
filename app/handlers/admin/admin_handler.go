package admin

import (
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services"
	"github.com/unrolled/render"
)

// AdminHandler serves every /admin route plus the cascade deletes that are
// also bound outside the /admin prefix. All routes sit behind
// AdminAuthMiddleware.
type AdminHandler struct {
	render        *render.Render
	log           *logger.Logger
	contributions *services.ContributionService
	prices        *services.PriceService
	stores        *services.StoreService
	products      *services.ProductService
	categories    *services.CategoryService
	cascade       *services.CascadeService
}

func NewAdminHandler(
	render *render.Render,
	log *logger.Logger,
	contributions *services.ContributionService,
	prices *services.PriceService,
	stores *services.StoreService,
	products *services.ProductService,
	categories *services.CategoryService,
	cascade *services.CascadeService,
) *AdminHandler {
	return &AdminHandler{
		render:        render,
		log:           log.With("handler", "AdminHandler"),
		contributions: contributions,
		prices:        prices,
		stores:        stores,
		products:      products,
		categories:    categories,
		cascade:       cascade,
	}
}
