package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"cricanalyzer/config"
	"cricanalyzer/models"
	"cricanalyzer/utils"
)

func main() {
	filePath := flag.String("file", "fixtures/seed.yaml", "path to seed fixtures")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		utils.Log.WithError(err).Warn("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		utils.Log.WithError(err).Fatal("invalid configuration")
	}
	utils.InitLogger(cfg.Environment)

	db, err := utils.ConnectDatabase(cfg.DatabaseURL, utils.DBOptions{})
	if err != nil {
		utils.Log.WithError(err).Fatal("database connection failed")
	}
	if err := models.Migrate(db); err != nil {
		utils.Log.WithError(err).Fatal("failed to migrate database")
	}

	fixtures, err := LoadFixtures(*filePath)
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to read fixtures")
	}
	created, err := Apply(context.Background(), db, fixtures)
	if err != nil {
		utils.Log.WithError(err).Fatal("seed failed")
	}

	fields := logrus.Fields{}
	for entity, n := range created {
		fields[entity] = n
	}
	utils.Log.WithFields(fields).Info("seed complete")
}
