//go:build !(rp2040 || rp2350)

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"calcbridge-go/services/bridge"
	"calcbridge-go/services/heartbeat"
	"calcbridge-go/services/node"
	"calcbridge-go/services/sim"
	"calcbridge-go/x/logx"
)

var rootCmd = &cobra.Command{
	Use:   "calcsim",
	Short: "Simulate the SPI calculator bridge on the host",
	Long: `calcsim wires a controller node and a peripheral node together the way the
two boards are wired: terminal -> controller serial -> SPI -> peripheral ->
serial -> terminal. Everything the peripheral writes is shown on stdout.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int("spin-limit", bridge.DefaultSpinLimit, "Max busy polls while an SPI word is on the wire")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	rootCmd.PersistentFlags().Duration("heartbeat", heartbeat.DefaultInterval, "Interval between node status lines at debug level")
}

// session is a running simulator plus whatever serves it.
type session struct {
	sys  *sim.System
	log  *slog.Logger
	stop func()
}

// startSession builds the simulator from the persistent flags and starts
// dispatching. The returned context ends on SIGINT/SIGTERM or stop.
//
// The context is taken from the root command: cobra only hands the root's
// context to a subcommand that has none yet, so a subcommand's own context
// may be left over from an earlier Execute.
func startSession(cmd *cobra.Command) (context.Context, *session, error) {
	spin, _ := cmd.Flags().GetInt("spin-limit")
	level, _ := cmd.Flags().GetString("log-level")
	addr, _ := cmd.Flags().GetString("metrics-addr")
	beat, _ := cmd.Flags().GetDuration("heartbeat")

	log := logx.New(logx.ParseLevel(level))
	ctx, cancel := signal.NotifyContext(cmd.Root().Context(), os.Interrupt, syscall.SIGTERM)

	s := sim.New(sim.Options{
		Bridge: bridge.Config{SpinLimit: spin},
		Logger: log,
	})
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	var srv *http.Server
	if addr != "" {
		reg := prometheus.NewRegistry()
		if err := reg.Register(sim.NewCollector(s.Controller, s.Peripheral)); err != nil {
			cancel()
			<-done
			return nil, nil, err
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info("serving metrics", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "error", err)
			}
		}()
	}

	report := func(name string, st bridge.Stats) {
		log.Debug("heartbeat", "node", name,
			"rx", st.Received, "tx", st.Forwarded, "drop", st.Dropped,
			"overruns", st.Overruns, "spurious", st.Spurious,
			"spin_timeouts", st.SpinTimeouts, "spin_high_water", st.SpinHighWater,
			"pending", st.Pending)
	}
	for _, n := range []*node.Node{s.Controller, s.Peripheral} {
		hb := &heartbeat.Service{Name: string(n.Role), Interval: beat, Src: n, Report: report}
		if err := hb.Start(ctx); err != nil {
			log.Warn("heartbeat not started", "node", n.Role, "error", err)
		}
	}

	log.Debug("session started", "spin_limit", s.Controller.Bridge.Config().SpinLimit)
	stop := func() {
		if srv != nil {
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			_ = srv.Shutdown(sctx)
			scancel()
		}
		cancel()
		<-done
		c, p := s.Controller.Stats(), s.Peripheral.Stats()
		log.Info("session stopped",
			"controller_rx", c.Received, "controller_tx", c.Forwarded, "controller_drop", c.Dropped,
			"peripheral_rx", p.Received, "peripheral_tx", p.Forwarded, "peripheral_drop", p.Dropped)
	}
	return ctx, &session{sys: s, log: log, stop: stop}, nil
}
