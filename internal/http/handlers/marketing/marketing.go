package marketing

import (
	"context"
	"net/http"

	"github.com/princekumarofficial/portfolio-service/internal/types"
	"github.com/princekumarofficial/portfolio-service/internal/utils/request"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

type Service interface {
	List(ctx context.Context) ([]types.MarketingItem, error)
	Create(ctx context.Context, req types.CreateMarketingItemRequest) (types.MarketingItem, error)
	Update(ctx context.Context, id int64, patch types.MarketingItemPatch) (types.MarketingItem, error)
	Delete(ctx context.Context, id int64) error
}

// List returns the marketing gallery
// @Summary List marketing items
// @Tags marketing
// @Produce json
// @Success 200 {object} response.Response{data=[]types.MarketingItem}
// @Router /marketing [get]
func List(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Marketing items fetched successfully", items))
	}
}

// Create adds an item at the end of the gallery
// @Summary Create marketing item
// @Tags marketing
// @Accept json
// @Produce json
// @Param item body types.CreateMarketingItemRequest true "Item"
// @Success 201 {object} response.Response{data=types.MarketingItem}
// @Failure 400 {object} response.Response "Bad request"
// @Router /marketing [post]
func Create(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateMarketingItemRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			response.WriteError(w, err)
			return
		}

		item, err := svc.Create(r.Context(), req)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("Marketing item created", item))
	}
}

// Update applies a partial edit
// @Summary Update marketing item
// @Tags marketing
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body types.MarketingItemPatch true "Fields to change"
// @Success 200 {object} response.Response{data=types.MarketingItem}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Item not found"
// @Router /marketing/{id} [patch]
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathInt64(r, "id")
		if err != nil {
			response.WriteError(w, err)
			return
		}

		var patch types.MarketingItemPatch
		if err := request.DecodeJSON(w, r, &patch); err != nil {
			response.WriteError(w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, patch)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Marketing item updated", item))
	}
}

// Delete removes an item
// @Summary Delete marketing item
// @Tags marketing
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Item not found"
// @Router /marketing/{id} [delete]
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := request.PathInt64(r, "id")
		if err != nil {
			response.WriteError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Marketing item deleted", nil))
	}
}
