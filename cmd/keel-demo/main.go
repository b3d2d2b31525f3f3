// Command keel-demo runs a small counter store with the full middleware
// stack and the devtools inspector, as a live playground for the library.
//
// While it runs, watch the store from another terminal:
//
//	curl localhost:6870/state
//	curl localhost:6870/metrics
//	websocat ws://localhost:6870/ws
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/keel-go/keel"
	"github.com/keel-go/keel/pkg/devtools"
	"github.com/keel-go/keel/pkg/middleware"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var (
		addr string
		tick time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "keel-demo",
		Short: "Run a demo keel store with the devtools inspector",
		Long: `keel-demo runs a counter store that ticks on an interval, wired
with logging, Prometheus, and OpenTelemetry middleware plus the
devtools inspector on an HTTP port.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, tick)
		},
	}
	rootCmd.Flags().StringVar(&addr, "addr", "localhost:6870", "inspector listen address")
	rootCmd.Flags().DurationVar(&tick, "tick", time.Second, "interval between tick actions")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("keel-demo %s (%s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// demoState is the demo's whole state tree.
type demoState struct {
	Ticks   int       `json:"ticks"`
	Started time.Time `json:"started"`
}

func demoReducer(s demoState, action any) demoState {
	switch typ, _ := keel.ActionType(action); typ {
	case keel.InitActionType():
		s.Started = time.Now()
		return s
	case "tick":
		s.Ticks++
		return s
	case "reset":
		s.Ticks = 0
		return s
	default:
		return s
	}
}

func run(addr string, tick time.Duration) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	inspector := devtools.New[demoState]()

	// Middleware first, inspector outermost: the inspector's enhancer both
	// records dispatches and subscribes for state snapshots.
	enhancer := keel.Compose[keel.StoreCreator[demoState]](
		inspector.Enhancer(),
		keel.ApplyMiddleware(
			middleware.Logger[demoState](),
			middleware.Prometheus[demoState](),
			middleware.OpenTelemetry[demoState](),
		),
	)

	st, err := keel.New(demoReducer, keel.WithEnhancer(enhancer))
	if err != nil {
		return err
	}
	defer inspector.Close()

	go func() {
		logger.Info("inspector listening", slog.String("addr", addr))
		if err := http.ListenAndServe(addr, inspector); err != nil {
			logger.Error("inspector server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// The store is confined to this goroutine; only the inspector's cached
	// snapshots are read elsewhere.
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for range ticker.C {
		if _, err := st.Dispatch(keel.Action{"type": "tick"}); err != nil {
			return err
		}
	}
	return nil
}
