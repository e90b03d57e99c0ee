// Command ec4xd is the reference server binary: it wires configuration,
// logging, persistence and the HTTP transport around one
// internal/engine.Engine, per SPEC_FULL.md §6.
//
// Flag parsing is grounded on neper-stars-houston's cmd/ binaries
// (jessevdk/go-flags), a richer alternative to the teacher's bare
// `flag` package; the bootstrap sequence itself (parse flags -> load
// config -> build logger -> defer recover+log -> build server -> Serve)
// is grounded on cmd/oglike_server/main.go.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"ec4x/internal/api"
	"ec4x/internal/config"
	"ec4x/internal/engine"
	"ec4x/internal/storage"
	"ec4x/pkg/arguments"
	"ec4x/pkg/db"
	"ec4x/pkg/locker"
	"ec4x/pkg/logger"
)

type options struct {
	Config string `short:"c" long:"config" description:"Configuration file to customize app behavior (development/production)"`
	Port   int    `short:"p" long:"port" description:"Port to listen on, overrides the configuration file" default:"0"`
	UseDB  bool   `long:"with-db" description:"Persist turn results and views to Postgres instead of holding them only in memory"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "ec4xd"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	metadata := arguments.Parse(opts.Config)
	if opts.Port != 0 {
		metadata.Port = opts.Port
	}

	log := logger.NewStdLogger(metadata.InstanceID, metadata.PublicIPv4)

	defer func() {
		if err := recover(); err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("app crashed after error: %v (stack: %s)", err, stack))
		}
		log.Release()
	}()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		panic(fmt.Errorf("could not load game configuration: %v", err))
	}

	var store storage.Store
	if opts.UseDB {
		dbase := db.NewPool(log)
		store = storage.NewPostgres(dbase, zerolog.New(os.Stdout).With().Timestamp().Logger())
	} else {
		store = storage.NewMemory()
	}

	locks := locker.NewConcurrentLocker(log)
	eng := engine.New(log, locks)

	server := api.NewServer(metadata.Port, eng, store, log, cfg)

	if err := server.Serve(); err != nil {
		panic(fmt.Errorf("unexpected error while listening on port %d (err: %v)", metadata.Port, err))
	}
}
