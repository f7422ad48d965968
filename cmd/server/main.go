package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"k8s.io/klog/v2"

	"flippair/internal/config"
	"flippair/internal/game"
	"flippair/internal/server"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		klog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := flag.Set("v", strconv.Itoa(cfg.Server.LogLevel)); err != nil {
		klog.Warningf("Failed to set log verbosity: %v", err)
	}

	// The game package tunables come from config so tests and deployments
	// can shorten the delays.
	game.DefaultPairCount = cfg.Game.PairCount
	game.MatchResolveDelay = cfg.Game.MatchDelay
	game.MismatchResolveDelay = cfg.Game.MismatchDelay

	started := make(chan *server.ServerState, 1)
	ctx := context.Background()

	go func() {
		state := <-started
		fmt.Printf("FlipPair server listening on http://%s\n", state.Address)
	}()

	if err := server.Run(ctx, cfg.Server.Addr, started); err != nil {
		klog.Fatal(err)
	}
}
