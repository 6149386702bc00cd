package auditlog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/pkg/response"
)

// Handler handles HTTP requests for the contract log
type Handler struct {
	service *Service
}

// NewHandler creates a new contract log handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for contract log endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{groupId}", h.List)

	return r
}

// List handles GET /contract-log/{groupId}
// @Summary      List a group's transaction log
// @Description  Append-only transaction ids of accepted mutations, oldest first
// @Tags         contract-log
// @Produce      json
// @Param        groupId   path   string true  "Hashed group id"
// @Param        page      query  int    false "Page number"
// @Param        per_page  query  int    false "Entries per page"
// @Success      200 {object} response.APIResponse{data=[]Entry}
// @Failure      400 {object} response.APIResponse
// @Router       /contract-log/{groupId} [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := escrow.ParseKey(chi.URLParam(r, "groupId"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	entries, total, err := h.service.ListByGroupID(r.Context(), groupID.String(), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list contract log")
		return
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, entries, meta)
}
