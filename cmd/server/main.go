package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"scrumcraft.ai/internal/persistence/indexdb"
	persistlog "scrumcraft.ai/internal/persistence/log"
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/match"
	"scrumcraft.ai/internal/sim/tuning"
	"scrumcraft.ai/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		matchID    = flag.String("match", "", "match id (default: random)")
		seed       = flag.Int64("seed", 1337, "match seed")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		teamsPath  = flag.String("teams", "", "path to teams.yaml (default: <configs>/teams.yaml)")
		diffPath   = flag.String("difficulty", "", "path to difficulty.yaml (default: built-in mid tier)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite results index")
		disableLog = flag.Bool("disable_log", false, "disable the compressed tick log")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	id := strings.TrimSpace(*matchID)
	if id == "" {
		id = uuid.NewString()
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tun, err := tuning.Load(tp)
	if err != nil {
		logger.Printf("tuning: %v (using defaults)", err)
		tun = tuning.Default()
	}

	diff, err := tuning.LoadDifficulty(strings.TrimSpace(*diffPath))
	if err != nil {
		logger.Fatalf("load difficulty: %v", err)
	}

	home, away, err := loadTeams(*teamsPath, *configDir)
	if err != nil {
		logger.Printf("teams: %v (using default squads)", err)
	}
	if home.Name == "" {
		home.Name = "Home"
	}
	if away.Name == "" {
		away.Name = "Away"
	}

	m := match.New(match.Config{
		MatchID:    id,
		Seed:       *seed,
		Home:       home,
		Away:       away,
		Tuning:     tun,
		Difficulty: diff,
	})

	matchDir := filepath.Join(*dataDir, "matches", id)
	if !*disableLog {
		tl := persistlog.NewTickLogger(matchDir)
		defer tl.Close()
		m.SetTickLogger(tl)
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := ws.NewServer(m, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("match %s listening on %s (seed=%d)", id, *addr, *seed)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http: %v", err)
		}
	}()

	runErr := m.Run(ctx)
	if runErr != nil && runErr != context.Canceled {
		logger.Printf("match loop: %v", runErr)
	}

	if m.Over() {
		res := m.Result()
		logger.Printf("full time: %s %d - %d %s",
			res.HomeTeam, res.HomeScore, res.AwayScore, res.AwayTeam)
		if idx != nil {
			if err := idx.RecordResult(res); err != nil {
				logger.Printf("record result: %v", err)
			}
		}
	}

	_ = httpSrv.Shutdown(context.Background())
}

type teamsFile struct {
	Home protocol.TeamSnapshot `yaml:"home"`
	Away protocol.TeamSnapshot `yaml:"away"`
}

func loadTeams(path, configDir string) (protocol.TeamSnapshot, protocol.TeamSnapshot, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		p = filepath.Join(configDir, "teams.yaml")
	}
	var tf teamsFile
	raw, err := os.ReadFile(p)
	if err != nil {
		return tf.Home, tf.Away, err
	}
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return tf.Home, tf.Away, fmt.Errorf("teams.yaml: %w", err)
	}
	return tf.Home, tf.Away, nil
}
