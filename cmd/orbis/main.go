// Command orbis plays the country guessing game in a terminal.
//
// Usage:
//
//	orbis [-config orbis.yaml] [-data countries.geojson] [-seed N]
//
// Type a country name to guess it. "list" shows the guesses so far, closest
// first, and "reveal" gives up.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chazu/orbis/pkg/config"
	"github.com/chazu/orbis/pkg/game"
	"github.com/chazu/orbis/pkg/geo"
	"github.com/chazu/orbis/pkg/globe"
	"github.com/chazu/orbis/pkg/logging"
	"github.com/chazu/orbis/pkg/palette"
	"github.com/chazu/orbis/pkg/proximity"
	"github.com/chazu/orbis/pkg/tessellate"
)

var log = logging.Named("main")

func main() {
	configPath := flag.String("config", "", "YAML config file")
	dataPath := flag.String("data", "", "GeoJSON FeatureCollection of countries (overrides config)")
	seed := flag.Uint64("seed", 0, "target selection seed, 0 picks one from the clock")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *seed, os.Stdin, os.Stdout); err != nil {
		log.WithError(err).Error("orbis failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, seed uint64, in io.Reader, out io.Writer) error {
	features, err := geo.LoadFile(cfg.DataPath)
	if err != nil {
		return err
	}

	idx, err := globe.Build(ctx, features,
		tessellate.New(tessellate.WithRadius(cfg.LandRadius())),
		globe.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}
	defer idx.Close()

	scorer := proximity.New(proximity.WithTouchToleranceKm(cfg.TouchToleranceKm))
	app := game.NewApp(idx, scorer, palette.New(cfg.MaxDistanceKm))

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	target, err := app.PickTarget(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return err
	}
	log.WithField("countries", idx.Len()).Debug("round started")

	return play(app, game.NewSession(target), in, out)
}

func play(app *game.App, s game.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Guess the country. %q lists guesses, %q gives up.\n", "list", "reveal")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "list":
			for i, g := range s.Ranked() {
				fmt.Fprintf(out, "%2d. %-32s %6.0f km %s\n", i+1, g.Country, g.DistanceKm, g.Color)
			}
			continue
		case "reveal":
			reveal(app, s.Target, out)
			return nil
		}

		next, res, err := app.Guess(s, line)
		if errors.Is(err, game.ErrUnknownCountry) {
			fmt.Fprintf(out, "no country called %q\n", line)
			continue
		}
		if err != nil {
			return err
		}
		s = next

		switch {
		case res.Won:
			fmt.Fprintf(out, "%s! Found in %d guesses.\n", res.Country, len(s.Guesses))
			reveal(app, s.Target, out)
			return nil
		case res.Repeat:
			fmt.Fprintf(out, "%s already guessed: %d km\n", res.Country, res.Rounded)
		default:
			fmt.Fprintf(out, "%s: %d km %s\n", res.Country, res.Rounded, res.Color)
		}
	}
	return scanner.Err()
}

func reveal(app *game.App, target string, out io.Writer) {
	v, err := app.FlyTo(target)
	if err != nil {
		fmt.Fprintf(out, "The country was %s.\n", target)
		return
	}
	fmt.Fprintf(out, "The country was %s, centered near lat %.2f, lon %.2f (camera %.2f, %.2f, %.2f).\n",
		v.Country, v.Centroid.Lat, v.Centroid.Lon, v.Camera[0], v.Camera[1], v.Camera[2])
}
