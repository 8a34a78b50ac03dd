package main

import (
	"fmt"

	"github.com/MKhiriev/go-risk-console/internal/config"
	"github.com/MKhiriev/go-risk-console/internal/logger"
	"github.com/MKhiriev/go-risk-console/internal/server"
	"github.com/MKhiriev/go-risk-console/internal/stub"
	"github.com/MKhiriev/go-risk-console/internal/validators"
	"github.com/MKhiriev/go-risk-console/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("stub-server")

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	store, err := stub.NewStore(cfg.App, validators.NewSettingsValidator(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating stub store")
	}
	handler := stub.NewHandler(store, cfg.App, log)

	srv, err := server.NewServer(handler, cfg.HTTP, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
