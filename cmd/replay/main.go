package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	persistlog "scrumcraft.ai/internal/persistence/log"
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/match"
	"scrumcraft.ai/internal/sim/tuning"
)

// replay re-simulates a logged match from its seed and verifies the digest
// stream tick by tick. Any divergence is a determinism bug.
func main() {
	var (
		logPath    = flag.String("log", "", "path to ticks.jsonl.zst")
		seed       = flag.Int64("seed", 0, "seed the match was started with")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		diffPath   = flag.String("difficulty", "", "path to difficulty.yaml used for the original run")
		teamsPath  = flag.String("teams", "", "path to teams.yaml (default: <configs>/teams.yaml)")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *logPath == "" {
		fmt.Fprintln(os.Stderr, "missing -log")
		os.Exit(2)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tun, err := tuning.Load(tp)
	if err != nil {
		tun = tuning.Default()
	}

	diff, err := tuning.LoadDifficulty(strings.TrimSpace(*diffPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load difficulty:", err)
		os.Exit(2)
	}

	home, away, err := loadTeams(*teamsPath, *configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "teams:", err, "(using default squads)")
	}

	m := match.New(match.Config{
		MatchID:    "replay",
		Seed:       *seed,
		Home:       home,
		Away:       away,
		Tuning:     tun,
		Difficulty: diff,
	})

	var checked uint64
	err = persistlog.ReadTicks(*logPath, func(entry match.TickLogEntry) error {
		if *toTick != 0 && entry.Tick > *toTick {
			return io.EOF
		}
		for m.Tick() < entry.Tick {
			m.StepOnce()
		}
		if got := m.StateDigest(); got != entry.Digest {
			return fmt.Errorf("tick %d: digest mismatch: log=%s sim=%s", entry.Tick, entry.Digest, got)
		}
		checked++
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}

	score := m.Score()
	fmt.Printf("replay ok: checked=%d ticks, final score %d-%d\n", checked, score[0], score[1])
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
