package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lapdeck/lapdeck/internal/api"
	"github.com/lapdeck/lapdeck/internal/config"
	apperrors "github.com/lapdeck/lapdeck/internal/errors"
	"github.com/lapdeck/lapdeck/internal/log"
	"github.com/lapdeck/lapdeck/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "lapdeck",
	Short: "Terminal client for the laptop catalog service",
	Long: `lapdeck is a terminal client for the laptop catalog service.
It signs in with a server-managed session cookie, keeps your profile up to
date, and lets you browse and edit the catalog from the command line or an
interactive browse mode.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// cookieFileName is the persisted cookie store, relative to the home directory.
const cookieFileName = ".lapdeck/cookies.json"

var (
	appClient *api.Client
	appJar    *api.PersistentJar
	appStore  *session.Store
)

// getClient wires configuration, logging and the persistent cookie jar into
// one API client, shared by all commands of the invocation.
func getClient() (*api.Client, error) {
	if appClient != nil {
		return appClient, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.LogLevel),
		Format: log.ParseFormat(cfg.LogFormat),
		Output: log.OutputStderr(),
	})
	log.SetDefaultLogger(logger)

	jarPath := cookieFileName
	if home, err := os.UserHomeDir(); err == nil {
		jarPath = filepath.Join(home, cookieFileName)
	}
	jar, err := api.NewPersistentJar(jarPath)
	if err != nil {
		return nil, err
	}

	appJar = jar
	appClient = api.NewClientWithJar(cfg.APIURL, jar, logger)
	return appClient, nil
}

// getStore returns the session store, constructing it (and firing its
// startup probe) on first use.
func getStore() (*session.Store, error) {
	if appStore != nil {
		return appStore, nil
	}

	client, err := getClient()
	if err != nil {
		return nil, err
	}

	appStore = session.NewStore(client, log.DefaultLogger())
	return appStore, nil
}

// resetApp drops the cached wiring. Tests rebuild against fresh backends.
func resetApp() {
	appClient = nil
	appJar = nil
	appStore = nil
}

// requireAuth gates a protected command the way the browse mode gates a
// protected view: wait for the probe, take one reading, redirect (here:
// fail with a hint) when unauthenticated.
func requireAuth(ctx context.Context) (*session.Store, error) {
	store, err := getStore()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	if session.NewGuard(store).Check(ctx) == session.RedirectToLogin {
		return nil, apperrors.NewNotAuthenticatedError()
	}
	return store, nil
}
