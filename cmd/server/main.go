package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/common/clock"
	"github.com/KirkDiggler/dobbelen/internal/common/uuid"
	"github.com/KirkDiggler/dobbelen/internal/config"
	"github.com/KirkDiggler/dobbelen/internal/dice"
	"github.com/KirkDiggler/dobbelen/internal/handlers/api"
	"github.com/KirkDiggler/dobbelen/internal/handlers/discord"
	"github.com/KirkDiggler/dobbelen/internal/logger"
	gameRepo "github.com/KirkDiggler/dobbelen/internal/repositories/game"
	roundLedgerRepo "github.com/KirkDiggler/dobbelen/internal/repositories/round_ledger"
	gameService "github.com/KirkDiggler/dobbelen/internal/services/game"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	gameArchive, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return err
	}

	roundLedger, err := roundLedgerRepo.NewRedis(&roundLedgerRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return err
	}

	gameSvc, err := gameService.NewService(&gameService.Config{
		MaxPlayers:      cfg.Game.MaxPlayers,
		StartingDice:    cfg.Game.StartingDice,
		WinningTokens:   cfg.Game.WinningTokens,
		CoolDown:        cfg.Game.CoolDown,
		AutoContinue:    cfg.Game.AutoContinue,
		MinThinkDelay:   cfg.Game.MinThink,
		MaxThinkDelay:   cfg.Game.MaxThink,
		EndedRetention:  cfg.Game.EndedRetention,
		IdleTimeout:     cfg.Game.IdleTimeout,
		AuditTimeout:    cfg.Game.AuditTimeout,
		GameRepo:        gameArchive,
		RoundLedgerRepo: roundLedger,
		DiceRoller:      dice.New(&dice.Config{Seed: cfg.Game.DiceSeed}),
		Clock:           clock.New(),
		UUIDGenerator:   uuid.New(),
		Logger:          zapLogger.Named("game"),
	})
	if err != nil {
		return err
	}
	// transports stop first, then queued ledger and archive writes drain
	defer gameSvc.Close()

	errCh := make(chan error, 1)

	var server *http.Server
	if cfg.HTTP.Enabled {
		handler, err := api.New(&api.Config{
			GameService: gameSvc,
			Logger:      zapLogger.Named("api"),
		})
		if err != nil {
			return err
		}

		server = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			zapLogger.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	var bot *discord.Bot
	if cfg.Discord.Token != "" {
		bot, err = discord.New(&discord.Config{
			Token:         cfg.Discord.Token,
			ApplicationID: cfg.Discord.ApplicationID,
			GuildID:       cfg.Discord.GuildID,
			GameService:   gameSvc,
			Logger:        zapLogger.Named("discord"),
		})
		if err != nil {
			return err
		}
		if err := bot.Start(); err != nil {
			return err
		}
		zapLogger.Info("discord bot started")
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	var runErr error
	select {
	case sig := <-sc:
		zapLogger.Info("shutting down", zap.String("signal", sig.String()))
	case runErr = <-errCh:
		zapLogger.Error("http server failed", zap.Error(runErr))
	}

	if bot != nil {
		if err := bot.Stop(); err != nil {
			zapLogger.Warn("error stopping discord bot", zap.Error(err))
		}
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zapLogger.Warn("error shutting down http server", zap.Error(err))
		}
	}

	return runErr
}
