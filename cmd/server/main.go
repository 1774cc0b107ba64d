package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/handlers"
)

func main() {
	service, err := app.NewService("config.toml")
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	recordHandler := handlers.NewRecordHandler(service)
	attestHandler := handlers.NewAttestationHandler(service)

	http.HandleFunc("POST /api/v1/{course}/labs", recordHandler.HandleLabSubmission)
	http.HandleFunc("POST /api/v1/{course}/attendance", recordHandler.HandleAttendanceMark)
	http.HandleFunc("POST /api/v1/{course}/activity", recordHandler.HandleActivityEntry)
	http.HandleFunc("POST /api/v1/{course}/tests", recordHandler.HandleTestSubmission)

	http.HandleFunc("GET /api/v1/{course}/attestation/{period}/{student}", attestHandler.HandleStudentReport)
	http.HandleFunc("GET /api/v1/{course}/attestation/{period}", attestHandler.HandleGroupReport)
	http.HandleFunc("POST /api/v1/{course}/attestation/{period}/{student}/snapshot", attestHandler.HandleSnapshot)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting lussekatt server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Lussekatt server failed: %v", err)
	}
}
