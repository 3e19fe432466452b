package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ivoronin/prodfilter/internal/catalog"
	"github.com/ivoronin/prodfilter/internal/fetcher"
)

// envPrefix namespaces environment overrides, e.g. PRODFILTER_DATA.
const envPrefix = "PRODFILTER"

// Configuration keys; each is also a persistent flag of the same name.
const (
	keyConfig   = "config"
	keyData     = "data"
	keyDBDriver = "db-driver"
	keyDBDSN    = "db-dsn"
	keyLogLevel = "log-level"
	keyTimeout  = "timeout"
	keyRetries  = "retries"
)

// app carries the configuration and logger shared by all commands.
type app struct {
	v   *viper.Viper
	log *logrus.Logger
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{v: v, log: logrus.New()}
}

func (a *app) bindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "Config file (yaml, json or toml)")
	flags.String(keyData, "", "Catalog location: JSON/HTML file or http(s) URL (default: built-in sample)")
	flags.String(keyDBDriver, catalog.DriverSQLite, "Database driver for --db-dsn: sqlite or pgx")
	flags.String(keyDBDSN, "", "Read the catalog from a database instead of --data")
	flags.String(keyLogLevel, "warn", "Log level: trace, debug, info, warn, error")
	flags.Duration(keyTimeout, fetcher.DefaultTimeout, "Timeout for remote catalog requests")
	flags.Int(keyRetries, fetcher.DefaultRetries, "Retries for remote catalog requests")

	if err := a.v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}
}

// setup reads the config file and configures logging before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if path := a.v.GetString(keyConfig); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level, err := logrus.ParseLevel(a.v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}
	a.log.SetLevel(level)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

func (a *app) timeout() time.Duration { return a.v.GetDuration(keyTimeout) }

// source resolves the configured catalog location. The returned close
// function releases database connections and is never nil.
func (a *app) source(ctx context.Context, useDB bool) (catalog.Source, func(), error) {
	if dsn := a.v.GetString(keyDBDSN); useDB && dsn != "" {
		driver := a.v.GetString(keyDBDriver)
		db, err := catalog.OpenDB(ctx, driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		a.log.WithField("driver", driver).Debug("reading catalog from database")
		return catalog.NewStore(db, catalog.StyleFor(driver)), func() { _ = db.Close() }, nil
	}

	f := fetcher.New(fetcher.Options{
		Timeout: a.timeout(),
		Retries: a.v.GetInt(keyRetries),
		Log:     a.log,
	})
	location := a.v.GetString(keyData)
	src, err := catalog.Open(ctx, location, f)
	if err != nil {
		return nil, nil, err
	}
	a.log.WithField("location", location).Debug("reading catalog")
	return src, func() {}, nil
}

// loadCatalog loads and validates the configured catalog.
func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return a.loadCatalogFrom(ctx, true)
}

func (a *app) loadCatalogFrom(ctx context.Context, useDB bool) (*catalog.Catalog, error) {
	src, closeSource, err := a.source(ctx, useDB)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	c, err := catalog.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"properties": len(c.Properties()),
		"products":   len(c.Products()),
		"operators":  len(c.Operators()),
	}).Debug("catalog loaded")
	return c, nil
}

// resolveProperty accepts a property id or a case-insensitive name.
func resolveProperty(c *catalog.Catalog, ref string) (catalog.Property, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		if p, ok := c.Property(id); ok {
			return p, nil
		}
	}
	if p, ok := c.PropertyByName(ref); ok {
		return p, nil
	}
	return catalog.Property{}, fmt.Errorf("unknown property %q", ref)
}
