package main

import (
	"os"

	"github.com/drsn-tech/catalog-core/internal/app"
	config "github.com/drsn-tech/catalog-core/internal/cfg"
	"github.com/drsn-tech/catalog-core/pkg/logger"
)

//	@title			Catalog Core API
//	@version		1.0
//	@description	Витрина каталога товаров с админской частью

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	if err := app.Run(cfg, log); err != nil {
		os.Exit(1)
	}
}
