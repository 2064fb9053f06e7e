// Command seed bulk-loads a YAML catalog through the product API.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"shopfront/config"
	"shopfront/storefront"
)

func main() {
	var (
		envFile     = flag.String("env", ".env", "Optional .env file")
		catalogPath = flag.String("catalog", "catalog.example.yaml", "YAML catalog to load")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadClient(*envFile)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	created, err := seed(context.Background(), storefront.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout), *catalogPath)
	if err != nil {
		log.WithError(err).Fatal("seed catalog")
	}
	log.WithFields(logrus.Fields{
		"catalog": *catalogPath,
		"api":     cfg.APIBaseURL,
		"created": created,
	}).Info("catalog seeded")
}

func seed(ctx context.Context, c *storefront.Client, path string) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, errors.Wrap(err, "open catalog")
	}
	defer f.Close()

	products, err := storefront.ReadCatalog(f)
	if err != nil {
		return 0, err
	}
	out, err := c.BulkCreateProducts(ctx, products)
	if err != nil {
		return 0, errors.Wrap(err, "bulk create")
	}
	return len(out), nil
}
