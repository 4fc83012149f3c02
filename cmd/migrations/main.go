package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/polls/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/polls/internal/config"
)

func main() {
	var steps int
	flag.IntVar(&steps, "steps", 0, "Number of migrations to apply (up) or revert (down); 0 means all")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] up|down|version\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.SetupLogger(); err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		logrus.Fatal(err)
	}

	m, err := postgres.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatal(err)
	}
	defer m.Close()

	switch flag.Arg(0) {
	case "up":
		err = run(m.Up, func() error { return m.Steps(steps) }, steps)
	case "down":
		err = run(m.Down, func() error { return m.Steps(-steps) }, steps)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if verr != nil {
			logrus.Fatal(verr)
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logrus.Info("No migrations to apply")
		return
	}
	if err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	logrus.Info("Migrations executed successfully.")
}

func run(all, some func() error, steps int) error {
	if steps > 0 {
		return some()
	}
	return all()
}
