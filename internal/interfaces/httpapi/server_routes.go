package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/reports/fact", handler.GetFactRows)
	mux.HandleFunc("GET /v1/reports/player-averages", handler.GetTopPlayerAverages)
	mux.HandleFunc("GET /v1/reports/goals", handler.GetTopGoalScorers)
	mux.HandleFunc("GET /v1/reports/assists", handler.GetTopAssistProviders)
	mux.HandleFunc("GET /v1/reports/cards", handler.GetMostCardedPlayers)
	mux.HandleFunc("GET /v1/reports/positions", handler.GetAverageByPosition)
	mux.HandleFunc("GET /v1/reports/clubs", handler.GetClubTotals)
	mux.HandleFunc("GET /v1/reports/goalkeepers", handler.GetGoalkeeperStats)
	mux.HandleFunc("GET /v1/reports/home-away", handler.GetHomeAwaySplits)
	mux.HandleFunc("GET /v1/reports/rounds", handler.GetRoundTotals)
}
