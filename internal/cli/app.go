// Package cli implements the interactive drafting console: a REPL over the
// settings vault, the prompt composer and the provider clients.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/apexai/draftkit/internal/config"
	"github.com/apexai/draftkit/internal/history"
	"github.com/apexai/draftkit/internal/llm"
	"github.com/apexai/draftkit/internal/logging"
	"github.com/apexai/draftkit/internal/models"
	"github.com/apexai/draftkit/internal/vault"
	"github.com/apexai/draftkit/internal/vault/storage"
	"github.com/apexai/draftkit/internal/vault/storage/boltdb"
)

type App struct {
	config     *config.Config
	vault      *vault.Vault
	store      storage.KV
	registry   *llm.Registry
	repo       history.Repository
	historyDB  *sql.DB
	settings   *models.Settings
	log        logging.Logger
	reader     *bufio.Reader
	generating atomic.Bool
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	for _, p := range []string{c.StoragePath, c.HistoryPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	store, err := boltdb.New(ctx, c.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings storage: %w", err)
	}

	var opts []vault.Option
	if c.PassphraseFile != "" {
		passphrase, err := readPassphraseFile(c.PassphraseFile)
		if err != nil {
			store.Close()
			return nil, err
		}
		opts = append(opts, vault.WithPassphrase(passphrase))
	}
	v := vault.New(store, log, opts...)

	repo, db, err := history.InitDatabase(ctx, c.HistoryPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open draft history: %w", err)
	}

	registry := llm.NewRegistry()
	registry.Register(models.ProviderOpenAI, llm.NewOpenAIClient(c.OpenAIBaseURL, log))
	registry.Register(models.ProviderGoogle, llm.NewGoogleClient(c.GeminiBaseURL, nil, log))

	settings, err := v.LoadSettings(ctx)
	if err != nil {
		store.Close()
		db.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = models.NewSettings()
	} else {
		settings.Normalize()
	}

	return &App{
		config:    c,
		vault:     v,
		store:     store,
		registry:  registry,
		repo:      repo,
		historyDB: db,
		settings:  settings,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// readPassphraseFile returns the first line of the file, without the newline.
func readPassphraseFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase file: %w", err)
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}
	data = bytes.TrimSuffix(data, []byte("\r"))
	if len(data) == 0 {
		return nil, fmt.Errorf("passphrase file %s is empty", path)
	}
	return data, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Println("draftkit (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error(context.Background(), "failed to close settings storage", "error", err)
	}
	if err := a.historyDB.Close(); err != nil {
		a.log.Error(context.Background(), "failed to close draft history", "error", err)
	}
}

func (a *App) getStatus() string {
	if a.settings.SelectedProvider == "" {
		return "(no provider)"
	}
	s := string(a.settings.SelectedProvider)
	if a.settings.SelectedModel != "" {
		s += "/" + a.settings.SelectedModel
	}
	if !a.settings.IsConfigured() {
		s += " no-key"
	}
	return "(" + s + ")"
}

// save persists the current settings. Errors are reported to the user but do
// not abort the session.
func (a *App) save(ctx context.Context) error {
	if err := a.vault.SaveSettings(ctx, a.settings); err != nil {
		printlnFn("Failed to save settings:", err.Error())
		return err
	}
	return nil
}
