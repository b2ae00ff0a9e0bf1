package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"github.com/ONESHO1/FPDIST/backend/internal/config"
	"github.com/ONESHO1/FPDIST/backend/internal/log"
)

const usage = `usage: fpdist <command> [flags] <args>

commands:
  compare <sample> <candidate>                     distance between two fingerprints
  explain <sample> <candidate>                     per slice breakdown of the distance
  rank [-top N] [-workers W] [-strict] <sample> <candidates dir>
  eval [-seed S] [-workers W] [-strict] <tracks dir> <samples dir>
`

func main() {
	// load ENV
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Init(config.DEFAULT_LOG_LEVEL)
		log.Logger.WithError(xerrors.New(err)).Fatal("Invalid configuration")
	}
	log.Init(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args[2:]
	switch os.Args[1] {
	case "compare":
		err = compareCmd(os.Stdout, args)
	case "explain":
		err = explainCmd(os.Stdout, args)
	case "rank":
		err = rankCmd(ctx, os.Stdout, cfg, args)
	case "eval":
		err = evalCmd(ctx, os.Stdout, cfg, args)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		log.Logger.WithError(xerrors.New(err)).WithField("command", os.Args[1]).Error("Command failed")
		stop()
		os.Exit(1)
	}
}
