package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/litguess/internal/cloud"
	"github.com/abhisek/litguess/internal/config"
	"github.com/abhisek/litguess/internal/corpus"
	"github.com/abhisek/litguess/internal/host"
	"github.com/abhisek/litguess/internal/progress"
	"github.com/abhisek/litguess/internal/question"
	"github.com/abhisek/litguess/internal/selection"
	"github.com/abhisek/litguess/internal/session"
	"github.com/abhisek/litguess/internal/store"
)

const (
	// progressNamespace holds the local copy of the player's progress.
	progressNamespace = "progress"
	profileNamespace  = "profile"
	playerIDKey       = "playerId"
)

// env bundles what every game command opens.
type env struct {
	cfg    *config.Config
	store  *store.Store
	corpus *corpus.Corpus
	logger *slog.Logger

	closers []func()
}

// openEnv loads configuration, opens the database and loads the corpus.
// Logs go to a file so they never draw over the terminal UI.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if seed, err := cmd.Flags().GetUint64("seed"); err == nil && seed != 0 {
		cfg.Seed = seed
	}

	e := &env{cfg: cfg}
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, closeLog)

	c, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.corpus = c

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { st.Close() })
	return e, nil
}

// Close releases everything in reverse order of opening.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

func fileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	path := cfg.LogFile
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "litguess.log")
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, cfg.LogLevel), func() { f.Close() }, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// playerID returns the id this installation syncs under, creating one on
// first use.
func playerID(ctx context.Context, kv *store.KV) (string, error) {
	vals, err := kv.Get(ctx, []string{playerIDKey})
	if err != nil {
		return "", fmt.Errorf("read player id: %w", err)
	}
	var id string
	if raw, ok := vals[playerIDKey]; ok && json.Unmarshal(raw, &id) == nil && id != "" {
		return id, nil
	}
	id = uuid.NewString()
	raw, _ := json.Marshal(id)
	if err := kv.Set(ctx, map[string]json.RawMessage{playerIDKey: raw}); err != nil {
		return "", fmt.Errorf("save player id: %w", err)
	}
	return id, nil
}

// progressBackend is the local store, layered under the cloud server
// when one is configured.
func (e *env) progressBackend(ctx context.Context) (progress.Backend, string, error) {
	local := e.store.KV(progressNamespace)
	if !e.cfg.CloudEnabled() {
		return local, "", nil
	}
	id, err := playerID(ctx, e.store.KV(profileNamespace))
	if err != nil {
		return nil, "", err
	}
	remote := cloud.NewClient(e.cfg.CloudURL, id, &http.Client{Timeout: 10 * time.Second})
	return &progress.Layered{Local: local, Remote: remote, Logger: e.logger}, id, nil
}

// connectHost dials the server's signal socket, falling back to a host
// that only logs.
func (e *env) connectHost(ctx context.Context, player string) host.Host {
	nop := host.Nop{Lang: e.cfg.Locale}
	if player == "" {
		return host.Logged{Host: nop, Logger: e.logger}
	}
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	sock, err := host.DialSocket(dialCtx, e.cfg.CloudURL, player, e.cfg.Locale, e.logger)
	if err != nil {
		e.logger.Warn("host socket unavailable", "error", err)
		return host.Logged{Host: nop, Logger: e.logger}
	}
	e.closers = append(e.closers, func() { sock.Close() })
	return host.Logged{Host: sock, Logger: e.logger}
}

// newGame wires a game over the local corpus and the configured backend.
func (e *env) newGame(ctx context.Context) (*session.Game, error) {
	backend, player, err := e.progressBackend(ctx)
	if err != nil {
		return nil, err
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fetcher := &session.LocalFetcher{
		Corpus:  e.corpus,
		Policy:  selection.NewPolicy(rand.New(rand.NewPCG(seed, 1))),
		Builder: question.NewBuilder(e.corpus, rand.New(rand.NewPCG(seed, 2))),
		Latency: e.cfg.FetchLatency,
		Logger:  e.logger,
	}
	ps := progress.NewStore(backend, progress.WithLogger(e.logger))
	e.closers = append(e.closers, ps.Wait)

	g := session.New(session.Options{
		Fetcher:  fetcher,
		Progress: ps,
		Total:    e.corpus.NumParagraphs(),
		Host:     e.connectHost(ctx, player),
		Recorder: e.store.EventRepo(),
		Logger:   e.logger,
	})
	g.Init(ctx)
	return g, nil
}
