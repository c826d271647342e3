package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/staranysa/TheHappyHaul/internal/models"
	"github.com/staranysa/TheHappyHaul/internal/services"
	"github.com/staranysa/TheHappyHaul/pkg/middleware"
)

// KidHandler serves kids, their items and share links.
type KidHandler struct {
	Service *services.WishlistService
}

func NewKidHandler(service *services.WishlistService) *KidHandler {
	return &KidHandler{Service: service}
}

// GetKidsHandler lists the caller's kids, or every kid for anonymous callers.
func (h *KidHandler) GetKidsHandler(w http.ResponseWriter, r *http.Request) {
	kids := h.Service.ListChildrenForOwner(r.Context(), middleware.UserIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, kids)
}

type createKidRequest struct {
	Name string          `json:"name"`
	Age  json.RawMessage `json:"age"`
}

// CreateKidHandler adds a kid owned by the caller.
func (h *KidHandler) CreateKidHandler(w http.ResponseWriter, r *http.Request) {
	var req createKidRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	kid, err := h.Service.CreateChild(r.Context(), middleware.UserIDFromContext(r.Context()), req.Name, models.ParseAge(req.Age))
	if err != nil {
		writeServiceError(w, err, "Failed to add kid")
		return
	}
	writeJSON(w, http.StatusOK, kid)
}

// DeleteKidHandler removes a kid and its wishlist.
func (h *KidHandler) DeleteKidHandler(w http.ResponseWriter, r *http.Request) {
	kidID := mux.Vars(r)["kidId"]

	if err := h.Service.DeleteChild(r.Context(), middleware.UserIDFromContext(r.Context()), kidID); err != nil {
		writeServiceError(w, err, "Failed to delete kid")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// CreateItemHandler adds an item to a kid's wishlist.
func (h *KidHandler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	kidID := mux.Vars(r)["kidId"]

	var req models.NewItem
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.Service.CreateItem(r.Context(), middleware.UserIDFromContext(r.Context()), kidID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to add item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateItemHandler edits an item. Anonymous callers may only change the
// purchase fields.
func (h *KidHandler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.ItemUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), vars["kidId"], vars["itemId"], req, middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "Failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItemHandler removes an item from a kid's wishlist.
func (h *KidHandler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.Service.DeleteItem(r.Context(), middleware.UserIDFromContext(r.Context()), vars["kidId"], vars["itemId"]); err != nil {
		writeServiceError(w, err, "Failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// RegenerateShareTokenHandler issues a new share link for a kid.
func (h *KidHandler) RegenerateShareTokenHandler(w http.ResponseWriter, r *http.Request) {
	kidID := mux.Vars(r)["kidId"]

	token, err := h.Service.RegenerateShareToken(r.Context(), middleware.UserIDFromContext(r.Context()), kidID)
	if err != nil {
		writeServiceError(w, err, "Failed to generate share token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"shareToken": token})
}

// GetSharedWishlistHandler serves the public view behind a share link.
func (h *KidHandler) GetSharedWishlistHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.GetSharedView(r.Context(), mux.Vars(r)["shareToken"])
	if err != nil {
		writeServiceError(w, err, "Failed to fetch shared wishlist")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SearchHandler finds an owner's lists by email or user id.
func (h *KidHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kids, err := h.Service.SearchByEmailOrOwnerID(r.Context(), q.Get("email"), q.Get("userId"))
	if err != nil {
		writeServiceError(w, err, "Failed to search wishlists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kids": kids})
}
