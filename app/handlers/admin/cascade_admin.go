package admin

import (
	"net/http"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/helpers"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	report, err := h.cascade.DeleteStore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, report)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	report, err := h.cascade.DeleteProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, report)
}

// RemoveProductFromStore drops one product from one store's catalog along
// with its price, contributions and votes.
func (h *AdminHandler) RemoveProductFromStore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	report, err := h.cascade.DeleteStoreProductPair(r.Context(), vars["storeId"], vars["productId"])
	if err != nil {
		helpers.WriteError(h.render, w, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, report)
}
