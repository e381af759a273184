package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/milk9111/tethersim/audio"
	"github.com/milk9111/tethersim/ecs/system"
	"github.com/milk9111/tethersim/netserver"
	"github.com/milk9111/tethersim/prefabs"
	"github.com/milk9111/tethersim/sim"
)

func main() {
	addr := flag.String("addr", ":8090", "websocket listen address")
	gun := flag.String("gun", "tether_gun", "gun variant handed to joining players")
	watch := flag.Bool("watch", false, "hot-reload prefab specs from disk")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	library, err := prefabs.NewLibrary("tether_gun.yaml", "salvage_tether.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("load prefabs")
	}

	server := netserver.New(log)
	runner, err := sim.New(sim.Config{
		Log:        log,
		Audio:      audio.Null{},
		Role:       system.RoleServer,
		Library:    library,
		Server:     server,
		DefaultGun: *gun,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build simulation")
	}

	if *watch {
		watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			log.Fatal().Err(err).Msg("watch prefabs")
		}
		defer watcher.Close()
		go func() {
			for ev := range watcher.Events {
				var err error
				switch ev.Kind {
				case prefabs.KindScript:
					err = runner.ReloadScript(ev.Path)
				default:
					err = library.Reload(ev.Path)
				}
				if err != nil {
					log.Warn().Err(err).Str("file", ev.Path).Msg("prefab reload failed")
					continue
				}
				log.Info().Str("file", ev.Path).Msg("prefab reloaded")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(ctx, *addr); err != nil {
			log.Error().Err(err).Msg("listener failed")
			stop()
		}
	}()

	log.Info().Str("addr", *addr).Msg("tetherd listening")
	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("simulation stopped")
	}
}
