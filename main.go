package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/app"
	"signal-link.klederson.com/internal/beacon"
	"signal-link.klederson.com/internal/config"
	"signal-link.klederson.com/internal/logging"
	"signal-link.klederson.com/internal/metrics"
	"signal-link.klederson.com/internal/server"
)

var flagConfig string

// flagKeys maps command-line flags onto settings keys. Only flags present on
// the running command are bound.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"log-file":    "log.file",
	"log-json":    "log.json",
	"analysis":    "analysis.mode",
	"endpoint":    "analysis.endpoint",
	"tick":        "simulator.tick",
	"probability": "simulator.probability",
	"capacity":    "simulator.capacity",
	"gps":         "sender.gps",
	"lat":         "sender.lat",
	"lon":         "sender.lon",
	"addr":        "server.addr",
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "signal-link",
		Short: "SIGNAL-LINK - offline emergency beacon with a radar receiver",
		Long: `SIGNAL-LINK broadcasts an SOS beacon classified from a short description
of the emergency, and scans for nearby distress signals on an ASCII radar.

Signals are simulated; no radio hardware is used.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app.ModeLanding)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-file", "signal-link.log", "Log file used by the terminal UI")
	pf.Bool("log-json", false, "Log in JSON format")
	pf.String("analysis", config.AnalysisLocal, "Emergency analyzer (local, remote)")
	pf.String("endpoint", "", "Remote analyzer endpoint")

	senderCmd := &cobra.Command{
		Use:   "sender",
		Short: "Open the SOS beacon screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app.ModeSender)
		},
	}
	addSenderFlags(senderCmd)

	receiverCmd := &cobra.Command{
		Use:   "receiver",
		Short: "Open the radar receiver screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app.ModeReceiver)
		},
	}
	addSimulatorFlags(receiverCmd)

	classifyCmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify an emergency description and print the assessment as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runClassify,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the receiver and classifier over HTTP and websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	addSimulatorFlags(serveCmd)

	// The landing screen can open either mode
	addSenderFlags(rootCmd)
	addSimulatorFlags(rootCmd)

	rootCmd.AddCommand(senderCmd, receiverCmd, classifyCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("gps", config.GPSSimulated, "Position source (static, simulated)")
	cmd.Flags().Float64("lat", config.OriginLat, "Sender latitude")
	cmd.Flags().Float64("lon", config.OriginLon, "Sender longitude")
}

func addSimulatorFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("tick", config.EmitInterval, "Simulator tick interval")
	cmd.Flags().Float64("probability", config.EmitProbability, "Chance of a signal per tick")
	cmd.Flags().Int("capacity", config.SignalCapacity, "Signals retained by the receiver")
}

func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := viper.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return config.Load(v, flagConfig)
}

func runTUI(cmd *cobra.Command, mode app.Mode) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(settings.Log, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	model := app.New(app.Options{
		Mode:      mode,
		Simulator: beacon.NewSimulator(beacon.FromSettings(settings.Simulator), nil),
		Analyzer:  analysis.New(settings.Analysis, log),
		Locator:   beacon.NewLocator(settings.Sender),
		Log:       log,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)
	model.Attach(p)
	defer model.Shutdown()

	log.WithField("mode", mode).Info("starting terminal UI")
	_, err = p.Run()
	return err
}

func runClassify(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(settings.Log, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	analyzer := analysis.New(settings.Analysis, log)
	if local, ok := analyzer.(*analysis.Local); ok {
		local.Delay = 0
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	a := analyzer.Analyze(ctx, strings.Join(args, " "))
	return writeJSON(cmd.OutOrStdout(), a)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(settings.Log, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	srv := server.New(server.Options{
		Addr:      settings.Server.Addr,
		Simulator: beacon.NewSimulator(beacon.FromSettings(settings.Simulator), nil),
		Analyzer:  analysis.New(settings.Analysis, log),
		Gatherer:  prometheus.DefaultGatherer,
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.WithField("addr", settings.Server.Addr).Info("signal-link server ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		_ = srv.Shutdown(context.Background())
		return err
	case <-quit:
		log.Warn("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
		return err
	}

	log.Info("shutdown complete")
	return nil
}
