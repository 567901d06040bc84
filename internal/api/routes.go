package api

import (
	"net/http"

	"github.com/isoguard/isoguard/internal/config"
	"github.com/isoguard/isoguard/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analyses.Handler().Routes(),
		newTaxonomyHandler(runtime.Logger).routes(),
	)
}
