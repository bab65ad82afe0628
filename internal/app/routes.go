package app

import (
	"net/http"

	"github.com/cliffsim/cliffsim/internal/server/router"
)

func (a *appServer) routes() []*router.Route {
	return []*router.Route{
		{
			Name:        "root",
			Method:      http.MethodGet,
			Pattern:     "/",
			HandlerFunc: a.RootHandler,
		},
		{
			Name:        "health",
			Method:      http.MethodGet,
			Pattern:     "/health",
			HandlerFunc: a.HealthHandler,
		},
		{
			Name:        "circuits.execute",
			Method:      http.MethodPost,
			Pattern:     "/api/v1/circuits:execute",
			HandlerFunc: a.ExecuteCircuit,
		},
		{
			Name:        "circuits.crosscheck",
			Method:      http.MethodPost,
			Pattern:     "/api/v1/circuits:crosscheck",
			HandlerFunc: a.CrossCheckCircuit,
		},
	}
}
