// Command replaycheck replays scenario files against the simulated board and
// exits non-zero when any expectation fails.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/hallchess/internal/obslog"
	"github.com/park285/hallchess/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: replaycheck <scenario.yaml>...")
		os.Exit(2)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	failed := 0
	for _, path := range os.Args[1:] {
		s, err := scenario.Load(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		started := time.Now()
		rep, err := scenario.Run(ctx, s, logger.Named("scenario"))
		cancel()
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		logger.Debug("scenario_passed",
			zap.String("name", rep.Name),
			zap.String("game_id", rep.GameID),
			zap.Duration("elapsed", time.Since(started)),
		)
		fmt.Printf("ok   %s (%d steps, %s) %s\n", rep.Name, rep.Steps, rep.Phase, strings.Join(rep.SAN, " "))
	}
	if failed > 0 {
		fmt.Printf("%d of %d scenarios failed\n", failed, len(os.Args)-1)
		os.Exit(1)
	}
}
