package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cosmolei/flexnet"
)

var (
	showReserved   bool
	showDumps      bool
	showTimestamps bool
	httpListen     string
	verbose        bool
	debug          bool
	timeout        time.Duration

	// output, changed by http output
	stdout     io.Writer = os.Stdout
	httpBuffer buffer
)

// buffer is a bytes.Buffer protected by a mutex, so the HTTP handler
// can read the last report while a new one is still being written.
type buffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (b *buffer) Write(p []byte) (int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *buffer) copy() *bytes.Buffer {
	b.lock.Lock()
	defer b.lock.Unlock()
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return bytes.NewBuffer(out)
}

var rootCmd = &cobra.Command{
	Use:   "flexnet-query <port@host>",
	Short: "Query a FlexNet license manager and its vendor daemons",
	Long: `flexnet-query connects to a FlexNet license manager, enumerates its
vendor daemons, and reports the license catalog and current usage for
each feature it finds.

Examples:
  flexnet-query 27000@license-server
  flexnet-query --dumps --debug 27000@license-server
  flexnet-query --http :8080 27000@license-server`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&showReserved, "reserved", false, "include fields with no resolved meaning in the report")
	flags.BoolVar(&showDumps, "dumps", false, "log raw hex of every wire request and the prefix byte of each reply")
	flags.BoolVar(&showTimestamps, "timestamps", true, "prefix each report with a timestamp")
	flags.StringVar(&httpListen, "http", "", "serve the last report over http at this address (e.g. :8080) instead of exiting")
	flags.BoolVar(&verbose, "verbose", false, "log one line per decoded message")
	flags.BoolVar(&debug, "debug", false, "alias for --dumps, matching the vendor tool's flag name")
	flags.Duration("timeout", 10*time.Second, "dial timeout and I/O deadline for each connection, counted from connect")

	viper.BindPFlag("timeout", flags.Lookup("timeout"))
	viper.SetEnvPrefix("FLEXNET_QUERY")
	viper.AutomaticEnv()
}

func runQuery(cmd *cobra.Command, args []string) error {
	timeout = viper.GetDuration("timeout")
	if debug {
		showDumps = true
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	if httpListen != "" {
		stdout = &httpBuffer
		go serveHTTP(httpListen, &logger)
	}

	client, err := flexnet.New(args[0],
		flexnet.WithTimeout(timeout),
		flexnet.WithLogger(logger),
		flexnet.WithVerbose(verbose),
		flexnet.WithDumpWire(showDumps),
		flexnet.WithReserved(showReserved),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout*4)
	defer cancel()

	if showTimestamps {
		fmt.Fprintf(stdout, "flexnet-query: %s\n", time.Now().Format(time.RFC3339))
	}
	if err := client.ReportEverything(ctx, stdout); err != nil {
		return fmt.Errorf("flexnet-query: %w", err)
	}

	if httpListen != "" {
		select {}
	}
	return nil
}

// serveHTTP serves the last report rendered into httpBuffer, the way
// the teacher's own -http flag turns stdout into a shared buffer read
// back out by an HTTP handler.
func serveHTTP(addr string, logger *zerolog.Logger) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if _, err := io.Copy(w, httpBuffer.copy()); err != nil {
			logger.Error().Err(err).Msg("writing http report")
		}
	})
	logger.Info().Str("addr", addr).Msg("serving report over http")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("http server")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
