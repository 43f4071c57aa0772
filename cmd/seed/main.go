package main

import (
	"context"
	"database/sql"
	"flag"
	"math/rand/v2"
	"os"
	"time"

	"cityguide/internal/env"
	"cityguide/internal/store"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger() *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(core).Sugar()
}

func main() {
	reviews := flag.Int("reviews", 5, "generated reviews per sample place")
	randSeed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for generated reviews")
	flag.Parse()

	logger := newLogger()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Fatalw("error loading .env file", "error", err)
	}

	addr := env.GetString("DB_ADDR", "")
	if addr == "" {
		logger.Fatal("DB_ADDR is required")
	}

	db, err := sql.Open("postgres", addr)
	if err != nil {
		logger.Fatalw("open database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatalw("connect database", "error", err)
	}

	opts := options{
		reviewsPerPlace: *reviews,
		adminName:       env.GetString("SEED_ADMIN_NAME", "Admin"),
		adminEmail:      env.GetString("SEED_ADMIN_EMAIL", ""),
		adminPassword:   env.GetString("SEED_ADMIN_PASSWORD", ""),
		rng:             rand.New(rand.NewPCG(*randSeed, *randSeed)),
		now:             time.Now(),
	}
	if opts.adminEmail != "" && len(opts.adminPassword) < 6 {
		logger.Fatal("SEED_ADMIN_PASSWORD must be at least 6 characters")
	}

	rep, err := seed(ctx, store.NewStorage(db), opts, logger)
	if err != nil {
		logger.Fatalw("seeding failed", "error", err)
	}

	logger.Infow("database seeded",
		"removed", rep.removed,
		"places", rep.inserted,
		"reviews", rep.reviews,
		"seed", *randSeed,
	)
}
