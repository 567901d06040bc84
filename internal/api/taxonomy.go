package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/isoguard/isoguard/internal/taxonomy"
	"github.com/isoguard/isoguard/pkg/handlers"
	"github.com/isoguard/isoguard/pkg/routes"
)

type taxonomyHandler struct {
	logger *slog.Logger
}

func newTaxonomyHandler(logger *slog.Logger) *taxonomyHandler {
	return &taxonomyHandler{
		logger: logger.With("handler", "taxonomy"),
	}
}

func (h *taxonomyHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/taxonomy",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list},
			{Method: "GET", Pattern: "/{id}", Handler: h.find},
		},
	}
}

func (h *taxonomyHandler) list(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, taxonomy.All())
}

func (h *taxonomyHandler) find(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusBadRequest, fmt.Errorf("invalid checklist id: %w", err),
		)
		return
	}

	entry, ok := taxonomy.Get(id)
	if !ok {
		handlers.RespondError(
			w, h.logger,
			http.StatusNotFound, fmt.Errorf("checklist %d not found", id),
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}
