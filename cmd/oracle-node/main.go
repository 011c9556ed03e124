// Command oracle-node runs a standalone oracle node service against a
// chain collaborator it talks to out of process (spec §1 OVERVIEW, §6
// "Service wiring").
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tommo-L/neo-modules/pkg/config"
	"github.com/Tommo-L/neo-modules/pkg/core/chain"
	"github.com/Tommo-L/neo-modules/pkg/services/oracle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "Path to the node configuration file",
	Value: "./config/oracle-node.yml",
}

func main() {
	app := cli.NewApp()
	app.Name = "oracle-node"
	app.Usage = "standalone oracle node service"
	app.Commands = []cli.Command{
		{
			Name:  "start",
			Usage: "start the oracle node",
			Subcommands: []cli.Command{
				{
					Name:   "oracle",
					Usage:  "run the oracle signature-aggregation service",
					Flags:  []cli.Flag{configFlag},
					Action: startOracle,
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func startOracle(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logger)
	if err != nil {
		return err
	}

	if cfg.Oracle.UnlockWallet.Password == "" {
		pass, err := readPassword(fmt.Sprintf("Enter password for %s > ", cfg.Oracle.UnlockWallet.Path))
		if err != nil {
			return fmt.Errorf("failed to read wallet password: %w", err)
		}
		cfg.Oracle.UnlockWallet.Password = pass
	}

	ledger := chain.NewFakeChain() // the real chain collaborator is wired in by the deployment, not this binary.
	svc, err := oracle.New(cfg.Oracle, ledger, log)
	if err != nil {
		return fmt.Errorf("failed to start oracle service: %w", err)
	}

	if err := svc.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register oracle metrics: %w", err)
	}
	promSrv := startPrometheus(cfg.Prometheus, log)
	if promSrv != nil {
		defer promSrv.Shutdown(context.Background())
	}

	svc.Start()
	defer svc.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-svc.Stopped():
		log.Warn("oracle service stopped itself; exiting")
	}
	return nil
}

// startPrometheus serves the default registry's metrics over HTTP while
// cfg.Enabled, returning nil if monitoring isn't configured (spec §6
// "Prometheus metrics").
func startPrometheus(cfg config.BasicService, log *zap.Logger) *http.Server {
	if !cfg.Enabled {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.Address, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("prometheus server stopped", zap.Error(err))
		}
	}()
	return srv
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func newLogger(cfg config.Logger) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
	}
	encoding := cfg.LogEncoding
	if encoding == "" {
		encoding = "console"
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = encoding
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.LogPath != "" {
		zcfg.OutputPaths = []string{cfg.LogPath}
	}
	return zcfg.Build()
}
