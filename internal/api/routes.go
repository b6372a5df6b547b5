package api

import (
	"net/http"

	"github.com/sentinel-news/sentinel/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	articleHandler := domain.Articles.Handler()

	routes.Register(
		mux,
		articleHandler.Routes(),
		articleHandler.AnalyticsRoutes(),
		domain.Alerts.Handler().Routes(),
		domain.Submit.Routes(),
	)
}
