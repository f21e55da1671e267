package main

import (
	"context"
	"net/http"
	"os"

	"asset-lending-api/internal"
	"asset-lending-api/internal/blob"
	"asset-lending-api/internal/config"
	"asset-lending-api/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Local development reads a .env file; deployed environments set real env
	// vars and have no file.
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	ctx := context.Background()

	rowStore, err := store.NewSheetsStore(ctx, store.Credentials{
		ServiceAccountEmail: cfg.ServiceAccountEmail,
		PrivateKey:          cfg.PrivateKey,
		SpreadsheetID:       cfg.SpreadsheetID,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to spreadsheet store")
	}

	var photos blob.Uploader
	if cfg.GCSBucket != "" {
		uploader, err := blob.NewGCSUploader(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
		if err != nil {
			log.WithError(err).Fatal("failed to create photo uploader")
		}
		defer uploader.Close()
		photos = uploader
	} else {
		log.Warn("GCS_BUCKET not set, loan photos will be recorded without uploading")
	}

	srv := internal.NewServer(cfg, rowStore, photos, log)

	log.WithFields(logrus.Fields{
		"port":        cfg.Port,
		"spreadsheet": cfg.SpreadsheetID,
		"items_sheet": cfg.ItemsSheet,
		"loans_sheet": cfg.LoansSheet,
	}).Info("starting asset lending API server")

	if err := http.ListenAndServe(":"+cfg.Port, srv.Router); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
