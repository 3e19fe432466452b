// Command generate rebuilds the embedded sample catalog from an HTML or JSON source.
// Usage: go run ./tools/generate/cmd <file-or-url>
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ivoronin/prodfilter/internal/fetcher"
	"github.com/ivoronin/prodfilter/tools/generate"
)

const dataDir = "internal/catalog/data"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: generate <file-or-url>")
		os.Exit(2)
	}

	log := logrus.New()
	g := generate.SourceGenerator{
		Location: os.Args[1],
		Fetcher:  fetcher.New(fetcher.Options{Log: log}),
	}

	log.WithField("source", g.Name()).Info("generating catalog")
	c, err := g.Generate(context.Background())
	if err != nil {
		log.WithError(err).Fatal("generate catalog")
	}

	path := filepath.Join(dataDir, "catalog.json")
	if err := generate.WriteFile(path, c); err != nil {
		log.WithError(err).Fatal("write catalog")
	}
	log.WithFields(logrus.Fields{
		"path":       path,
		"properties": len(c.Properties()),
		"products":   len(c.Products()),
	}).Info("catalog written")
}
