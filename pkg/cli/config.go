package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/harrier/pkg/adapter"
	"github.com/m-mizutani/harrier/pkg/intent"
	"github.com/m-mizutani/harrier/pkg/repository"
	"github.com/m-mizutani/harrier/pkg/session"
	"github.com/m-mizutani/harrier/pkg/usecase/catalog"
	"github.com/m-mizutani/harrier/pkg/usecase/retrieval"
	"github.com/m-mizutani/harrier/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Index backend
	project   string
	database  string
	indexType string
	indexPath string

	// Session state
	stateDir  string
	sessionID string

	// Adapters
	geminiProject  string
	geminiLocation string
	embeddingModel string
	dimensions     int64

	// Intent patterns
	patternFile string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "index",
			Usage:       "Vector index backend (firestore or local)",
			Value:       "local",
			Sources:     cli.EnvVars("HARRIER_INDEX"),
			Destination: &cfg.indexType,
		},
		&cli.StringFlag{
			Name:        "index-path",
			Usage:       "Path of the local index file (local backend only)",
			Sources:     cli.EnvVars("HARRIER_INDEX_PATH"),
			Destination: &cfg.indexPath,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "state-dir",
			Usage:       "Directory for session state (default ~/.harrier)",
			Sources:     cli.EnvVars("HARRIER_STATE_DIR"),
			Destination: &cfg.stateDir,
		},
		&cli.StringFlag{
			Name:        "session",
			Aliases:     []string{"s"},
			Usage:       "Session ID for shown-skill and gap tracking",
			Value:       "default",
			Sources:     cli.EnvVars("HARRIER_SESSION_ID"),
			Destination: &cfg.sessionID,
		},
		&cli.StringFlag{
			Name:        "patterns",
			Usage:       "YAML file overriding the intent pattern table",
			Sources:     cli.EnvVars("HARRIER_PATTERNS"),
			Destination: &cfg.patternFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "warn",
			Sources:     cli.EnvVars("HARRIER_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// geminiFlags returns flags for the embedding backend with destination config
func geminiFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model name",
			Value:       "gemini-embedding-001",
			Sources:     cli.EnvVars("HARRIER_EMBEDDING_MODEL"),
			Destination: &cfg.embeddingModel,
		},
		&cli.IntFlag{
			Name:        "embedding-dims",
			Usage:       "Embedding output dimensionality",
			Value:       768,
			Sources:     cli.EnvVars("HARRIER_EMBEDDING_DIMS"),
			Destination: &cfg.dimensions,
		},
	}
}

// loggerContext attaches a logger at the configured level. Logs go to
// stderr so hook payloads on stdout stay machine-readable.
func (cfg *config) loggerContext(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// resolveStateDir expands the default state directory lazily so tests can
// override it with a flag
func (cfg *config) resolveStateDir() (string, error) {
	if cfg.stateDir != "" {
		return cfg.stateDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, ".harrier"), nil
}

func (cfg *config) sessionDir() (string, error) {
	stateDir, err := cfg.resolveStateDir()
	if err != nil {
		return "", err
	}
	return session.Dir(stateDir, cfg.sessionID), nil
}

// newIndex creates the configured vector index backend
func (cfg *config) newIndex(ctx context.Context) (repository.Index, error) {
	switch cfg.indexType {
	case "local", "":
		path := cfg.indexPath
		if path == "" {
			stateDir, err := cfg.resolveStateDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(stateDir, "index.json")
		}
		return repository.NewLocal(path), nil

	case "firestore":
		if cfg.project == "" {
			return nil, goerr.New("project is required for the firestore backend")
		}
		if cfg.database == "" {
			return nil, goerr.New("database is required for the firestore backend")
		}
		index, err := repository.New(ctx, cfg.project, cfg.database)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create firestore index")
		}
		return index, nil

	default:
		return nil, goerr.New("unknown index backend", goerr.V("index", cfg.indexType))
	}
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	project := cfg.geminiProject
	if project == "" {
		project = cfg.project
	}
	if project == "" {
		return nil, goerr.New("gemini-project is required")
	}

	return adapter.NewGemini(ctx, project, cfg.geminiLocation,
		adapter.WithEmbeddingModel(cfg.embeddingModel),
		adapter.WithDimensions(int32(cfg.dimensions)))
}

// newPatternTable loads the intent pattern table, from YAML when configured
func (cfg *config) newPatternTable() (*intent.Table, error) {
	if cfg.patternFile == "" {
		return intent.DefaultTable(), nil
	}

	table, err := intent.LoadTable(cfg.patternFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load pattern table", goerr.V("path", cfg.patternFile))
	}
	return table, nil
}

// newBooster assembles the working-context booster for the session
func (cfg *config) newBooster() (*intent.Booster, error) {
	dir, err := cfg.sessionDir()
	if err != nil {
		return nil, err
	}

	table, err := cfg.newPatternTable()
	if err != nil {
		return nil, err
	}
	return intent.NewBooster(table, intent.NewContext(dir)), nil
}

// newRetrieval assembles the retrieval engine with session tracking
func (cfg *config) newRetrieval(ctx context.Context, opts ...retrieval.Option) (*retrieval.UseCase, error) {
	index, err := cfg.newIndex(ctx)
	if err != nil {
		return nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	dir, err := cfg.sessionDir()
	if err != nil {
		return nil, err
	}

	booster, err := cfg.newBooster()
	if err != nil {
		return nil, err
	}

	opts = append([]retrieval.Option{retrieval.WithBooster(booster)}, opts...)
	return retrieval.New(index, gemini, session.NewStore(dir), session.NewGaps(dir), opts...), nil
}

// newCatalog assembles the catalog use case
func (cfg *config) newCatalog(ctx context.Context, opts ...catalog.Option) (*catalog.UseCase, error) {
	index, err := cfg.newIndex(ctx)
	if err != nil {
		return nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.New(index, gemini, opts...), nil
}
