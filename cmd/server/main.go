package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/config"
	"holdem-server/internal/mux"
	"holdem-server/internal/rng"
	"holdem-server/pkg/playable/poker/equity"
	"holdem-server/pkg/playable/poker/texasholdem"
	"holdem-server/pkg/room"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "the listen address (overrides server.addr)")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()
	seed := rng.Seed(nil)

	estimator := equity.New(cfg.EquityOptions(seed)...)
	go func() {
		start := time.Now()
		if err := estimator.Precompute(context.Background(), cfg.Table.MaxPlayers-1); err != nil {
			logrus.WithError(err).Error("could not precompute preflop equity")
			return
		}

		logrus.WithField("duration", time.Since(start)).Info("preflop equity ready")
	}()

	table, err := texasholdem.NewTable(logrus.StandardLogger(), cfg.TableOptions(),
		texasholdem.WithSeed(seed),
		texasholdem.WithEstimator(estimator),
	)
	if err != nil {
		logrus.WithError(err).Fatal("could not create table")
	}
	defer table.Close()

	dealer := room.NewDealer(logrus.StandardLogger(), table)
	dealer.StartShift()
	defer dealer.EndShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}

	srv := &http.Server{
		Addr:         listen,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, dealer))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithFields(logrus.Fields{
		"addr":  srv.Addr,
		"table": table.ID,
	}).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
