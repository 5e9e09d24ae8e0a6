package api

import (
	"net/http"

	"github.com/JaimeStill/wayfinder/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	dash := domain.Dashboard.Handler()

	routes.Register(
		mux,
		domain.Runs.Handler().Routes(),
		dash.RunRoutes(),
		dash.Routes(),
		domain.Classifier.Handler().Routes(),
	)
}
