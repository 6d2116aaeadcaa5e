package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/internal/config"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/adapters/file"
	loamAdapter "github.com/aretw0/parley/pkg/adapters/loam"
	"github.com/aretw0/parley/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/parley/pkg/adapters/redis"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/spf13/cobra"
)

// project is everything a command needs, resolved from flags and config.
type project struct {
	cfg         *config.Config
	logger      *slog.Logger
	loader      ports.TreeLoader
	assignments ports.AssignmentStore
	world       ports.WorldState
	close       func() error
}

func openProject(cmd *cobra.Command) (*project, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	p := &project{
		cfg:    cfg,
		logger: logging.New(level),
		close:  func() error { return nil },
	}

	switch cfg.Loader {
	case config.LoaderLoam:
		l, err := loamAdapter.Open(cfg.Trees)
		if err != nil {
			return nil, fmt.Errorf("failed to open trees: %w", err)
		}
		p.loader = l
	default:
		p.loader = file.NewLoader(cfg.Trees)
	}

	if cfg.Redis.Addr != "" {
		client := redisAdapter.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		p.assignments = redisAdapter.NewAssignmentStore(client)
		p.world = redisAdapter.NewWorld(client, redisAdapter.WithWorldLogger(p.logger))
		p.close = client.Close
		p.logger.Debug("using redis state", "addr", cfg.Redis.Addr)
	} else {
		p.assignments = file.NewAssignmentStore(cfg.State)
		p.world = memory.NewWorld()
	}
	return p, nil
}

// loadConfig reads --config, or <dir>/parley.yaml when present, or falls back
// to defaults that read YAML trees from --dir.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	dir, _ := cmd.Flags().GetString("dir")

	if path != "" {
		return config.Load(path)
	}

	candidate := filepath.Join(dir, config.DefaultFile)
	if _, err := os.Stat(candidate); err == nil {
		return config.Load(candidate)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// an empty document still picks up environment overrides
	cfg, err := config.Parse(nil)
	if err != nil {
		return nil, err
	}
	cfg.Trees = dir
	cfg.State = filepath.Join(dir, cfg.State)
	return cfg, nil
}

// game builds a Game from the project; extra hooks are combined with logging.
func (p *project) game(hooks ...domain.LifecycleHooks) (*parley.Game, error) {
	router, err := p.cfg.Router()
	if err != nil {
		return nil, err
	}

	all := append([]domain.LifecycleHooks{observability.LogHooks(p.logger)}, hooks...)
	return parley.New("",
		parley.WithLoader(p.loader),
		parley.WithLogger(p.logger),
		parley.WithLifecycleHooks(observability.Combine(all...)),
		parley.WithRouter(router),
		parley.WithWorld(p.world),
		parley.WithActionDefaults(p.cfg.Actions),
		parley.WithRevealDelay(p.cfg.RevealDelay),
		parley.WithAssignments(p.assignments),
	)
}

// character resolves who to talk to: a declared character by name, the first
// declared character, or an ad-hoc one speaking the tree of the same name.
func (p *project) character(name string) (config.Character, error) {
	if name == "" {
		if len(p.cfg.Characters) == 0 {
			return config.Character{}, errors.New("no characters configured; pass a tree id")
		}
		return p.cfg.Characters[0], nil
	}
	if ch, ok := p.cfg.Character(name); ok {
		return ch, nil
	}
	return config.Character{Name: name, Tree: name}, nil
}

// treeArg returns the tree named by args, or the only tree in the project.
func (p *project) treeArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	ids, err := p.loader.ListTrees()
	if err != nil {
		return "", err
	}
	if len(ids) != 1 {
		return "", fmt.Errorf("found %d trees; name one of %v", len(ids), ids)
	}
	return ids[0], nil
}

func exitOnError(msg string, err error) {
	if err != nil {
		fmt.Printf("%s: %v\n", msg, err)
		os.Exit(1)
	}
}
