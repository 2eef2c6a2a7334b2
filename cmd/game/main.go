package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Pulse-Sense/internal/audio"
	"github.com/Garsondee/Pulse-Sense/internal/config"
	"github.com/Garsondee/Pulse-Sense/internal/game"
	"github.com/Garsondee/Pulse-Sense/internal/spectate"
	"github.com/Garsondee/Pulse-Sense/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "text")
		logger.Log.WithError(err).Fatal("load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []game.Option{game.WithLog(log)}

	if cfg.Audio {
		player := audio.NewPlayer(log.WithField("component", "audio"))
		if err := player.Init(); err != nil {
			log.WithError(err).Warn("audio unavailable, running silent")
		} else {
			defer player.Close()
			opts = append(opts, game.WithAudio(player))
		}
	}

	if cfg.SpectateAddr != "" {
		hub := spectate.NewHub(log.WithField("component", "spectate"), 2)
		opts = append(opts, game.WithSpectator(hub))
		go func() {
			if err := spectate.Serve(ctx, cfg.SpectateAddr, hub); err != nil {
				log.WithError(err).Error("spectate server stopped")
			}
		}()
	}

	g := game.New(game.Config{
		Seed:         cfg.Seed,
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
		WorldWidth:   cfg.WorldWidth,
		WorldHeight:  cfg.WorldHeight,
		Walls:        cfg.Walls,
		Demo:         cfg.Demo,
	}, opts...)

	ebiten.SetWindowTitle("Pulse Sense")
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	log.WithFields(logrus.Fields{
		"window": []int{cfg.WindowWidth, cfg.WindowHeight},
		"audio":  cfg.Audio,
	}).Info("starting")
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("game exited")
	}
}
