package main

import (
	"context"
	"flag"

	"cricanalyzer/config"
	"cricanalyzer/utils"
	"cricanalyzer/workers"
)

// Regenerates the sitemap once, outside the server's schedule.
func main() {
	outDir := flag.String("out", "", "output directory (defaults to PUBLIC_DIR)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		utils.Log.WithError(err).Warn("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		utils.Log.WithError(err).Fatal("invalid configuration")
	}
	utils.InitLogger(cfg.Environment)
	if *outDir == "" {
		*outDir = cfg.PublicDir
	}

	ctx := context.Background()
	db, err := utils.ConnectDatabase(cfg.DatabaseURL, utils.DBOptions{})
	if err != nil {
		utils.Log.WithError(err).Fatal("database connection failed")
	}
	_, public, err := utils.OpenMediaStores(ctx, cfg)
	if err != nil {
		utils.Log.WithError(err).Fatal("failed to initialize media storage")
	}

	path, err := workers.NewSitemapGenerator(db, cfg.SitemapHostname, *outDir, public).Generate(ctx)
	if err != nil {
		utils.Log.WithError(err).Fatal("sitemap generation failed")
	}
	utils.Log.WithField("path", path).Info("[Sitemap] done")
}
