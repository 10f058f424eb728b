// Command clapper-ytdlp synthesizes a playback manifest from an
// extracted media info record (the JSON yt-dlp prints with -j).
//
// Usage:
//
//	yt-dlp -j URL | clapper-ytdlp
//	clapper-ytdlp -i info.json -order dash,hls
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Rafostar/clapper-enhancers/enhancer"
	"github.com/Rafostar/clapper-enhancers/internal/log"
	"github.com/Rafostar/clapper-enhancers/internal/manifest"
	"github.com/Rafostar/clapper-enhancers/internal/types"
)

func main() {
	var (
		input    = flag.String("i", "", "Info JSON file (default: stdin)")
		order    = flag.String("order", "", "Comma-separated strategy order (hls,dash,direct,playlist)")
		maxItems = flag.Int("max-items", 0, "Playlist item cap (0 = default)")
		typeOnly = flag.Bool("t", false, "Print the media type instead of the manifest body")
		level    = flag.String("log-level", "info", "Log level")
		timeout  = flag.Duration("timeout", 30*time.Second, "Generation timeout")
	)
	flag.Parse()

	log.Configure(log.Config{Level: *level})
	logger := log.WithComponent("cli")

	in := os.Stdin
	if *input != "" {
		f, err := os.Open(*input)
		if err != nil {
			logger.Fatal().Err(err).Msg("open input")
		}
		defer f.Close()
		in = f
	}

	info, err := types.Decode(in)
	if err != nil {
		logger.Fatal().Err(err).Msg("decode media info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	e := enhancer.New(enhancer.Config{
		StrategyOrder:    parseOrder(*order),
		MaxPlaylistItems: *maxItems,
		Logger:           &logger,
	})

	harvest, err := e.Harvest(ctx, info)
	if err != nil {
		logger.Fatal().Err(err).Msg("no manifest")
	}

	if *typeOnly {
		fmt.Println(harvest.MediaType)
		return
	}
	fmt.Println(harvest.Body)
}

func parseOrder(s string) []manifest.Strategy {
	if s == "" {
		return nil
	}
	var order []manifest.Strategy
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		order = append(order, manifest.Strategy(name))
	}
	return order
}
