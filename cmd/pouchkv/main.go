// Command pouchkv runs a RESP-speaking in-memory key-value server: a
// single binary accepting --port, --replicaof, --metrics-addr, and
// --log-level, modeled on packetd's cobra-based cmd/ package but trimmed to
// one command since there is no subcommand tree here.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pouchkv/pouchkv/internal/config"
	"github.com/pouchkv/pouchkv/internal/logging"
	"github.com/pouchkv/pouchkv/internal/metrics"
	"github.com/pouchkv/pouchkv/internal/replica"
	"github.com/pouchkv/pouchkv/internal/replid"
	"github.com/pouchkv/pouchkv/internal/server"
	"github.com/pouchkv/pouchkv/internal/store"
)

var (
	flagPort        uint16
	flagReplicaOf   string
	flagMetricsAddr string
	flagLogLevel    string
)

func main() {
	root := &cobra.Command{
		Use:   "pouchkv",
		Short: "A minimal RESP-speaking in-memory key-value server",
		RunE:  run,
	}
	root.Flags().Uint16Var(&flagPort, "port", 6379, "TCP listen port")
	root.Flags().StringVar(&flagReplicaOf, "replicaof", "", `"<host> <port>" of the primary to replicate from`)
	root.Flags().StringVar(&flagMetricsAddr, "metrics-addr", ":9121", "bind address for the /metrics endpoint; empty disables it")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "one of debug, info, warn, error")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{Level: cfg.LogLevel})
	defer log.Sync()

	if cfg.Role.Kind == config.RoleReplica {
		log.Infof("starting as replica of %s:%d", cfg.Role.PrimaryHost, cfg.Role.PrimaryPort)
		if err := replica.Handshake(cfg.Role.PrimaryHost, cfg.Role.PrimaryPort, cfg.Port, log); err != nil {
			return fmt.Errorf("replica handshake failed: %w", err)
		}
	}

	st := store.New()
	m := metrics.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsAddr != "" {
		metricsSrv := metrics.NewServer(cfg.MetricsAddr, m)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil {
				log.Warnf("metrics server stopped: %v", err)
			}
		}()
		defer metricsSrv.Shutdown(ctx)
		go m.WatchStoreSize(ctx, 5*time.Second, st.Len)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", cfg.Port, err)
	}
	defer listener.Close()

	srv := server.New(cfg, st, log, m)
	return srv.Serve(listener)
}

func buildConfig() (*config.Config, error) {
	cfg := &config.Config{
		Port:        flagPort,
		MetricsAddr: flagMetricsAddr,
		LogLevel:    flagLogLevel,
	}

	if flagReplicaOf == "" {
		cfg.Role = config.Role{Kind: config.RolePrimary, ID: replid.Generate()}
		return cfg, nil
	}

	host, port, err := config.ParseReplicaOf(flagReplicaOf)
	if err != nil {
		return nil, err
	}
	cfg.Role = config.Role{Kind: config.RoleReplica, PrimaryHost: host, PrimaryPort: port}
	return cfg, nil
}
