package commands

import (
	"context"
	"path/filepath"

	"github.com/conftree/conftree/internal/config"
	"github.com/conftree/conftree/internal/discovery"
	"github.com/conftree/conftree/internal/session"
	"github.com/conftree/conftree/internal/storage"
)

// appEnv bundles the loaded configuration and the collaborators every
// command needs to open a document session.
type appEnv struct {
	config     *config.Config
	store      *storage.Store
	pins       *discovery.PinStore
	discoverer *discovery.Discoverer
}

// loadEnv loads configuration for the directory holding file and wires
// up schema discovery backed by the shared pin store.
func loadEnv(file string) (*appEnv, error) {
	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(file)
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	store := storage.New(paths.StoragePath())
	pins := discovery.NewPinStore(store)
	return &appEnv{
		config: cfg,
		store:  store,
		pins:   pins,
		discoverer: &discovery.Discoverer{
			Pins:      pins,
			Suffix:    cfg.SuffixOrDefault(),
			ExtraDirs: cfg.SchemaDirs,
		},
	}, nil
}

// openSession loads a single document session over file.
func openSession(ctx context.Context, file string) (*session.Session, *appEnv, error) {
	env, err := loadEnv(file)
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Load(ctx, file, session.Options{
		Discoverer: env.discoverer,
		Indent:     env.config.IndentOrDefault(),
	})
	if err != nil {
		return nil, nil, err
	}
	return sess, env, nil
}
