package commands

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/server"
	"github.com/iov-one/custody/store"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/libs/log"
)

// Environment variables provide the defaults of the start flags.
const (
	EnvHTTP         = "CUSTODY_HTTP"
	EnvKafkaBrokers = "CUSTODY_KAFKA_BROKERS"
	EnvKafkaTopic   = "CUSTODY_KAFKA_TOPIC"
)

// StartOptions holds the flags of the start command.
type StartOptions struct {
	*RootOptions
	HTTP         string
	KafkaBrokers string
	KafkaTopic   string
}

// NewStartCommand returns the command running the daemon.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server of the wallet.

On the first start the owner set is read from the genesis file. Events are
always logged and additionally published to Kafka when brokers are given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.HTTP, "http", env(EnvHTTP, ":8080"), "address the HTTP server listens on")
	cmd.Flags().StringVar(&opts.KafkaBrokers, "kafka-brokers", env(EnvKafkaBrokers, ""), "comma separated Kafka brokers, empty disables publishing")
	cmd.Flags().StringVar(&opts.KafkaTopic, "kafka-topic", env(EnvKafkaTopic, "custody-events"), "Kafka topic events are published to")
	return cmd
}

func runStart(parent context.Context, opts *StartOptions) error {
	logger, err := opts.Logger()
	if err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = custody.WithLogger(ctx, logger)

	db, err := store.OpenLevelDB(opts.DataDir())
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("cannot close database", "err", err)
		}
	}()

	metrics := app.NewMetrics()
	a := app.NewApp(db).
		WithLogger(logger).
		WithMetrics(metrics).
		WithSinks(app.LogSink{Logger: logger.With("module", "events")})

	if brokers := splitList(opts.KafkaBrokers); len(brokers) > 0 {
		sink, err := app.NewKafkaSink(app.KafkaConfig{Brokers: brokers, Topic: opts.KafkaTopic})
		if err != nil {
			return err
		}
		defer sink.Close()
		a.WithSinks(sink)
		logger.Info("publishing events to kafka", "topic", opts.KafkaTopic)
	}

	if err := ensureInitialized(ctx, a, opts.GenesisPath(), logger); err != nil {
		return err
	}

	router := server.NewRouter(a, metrics.Handler(), logger.With("module", "http"))
	return server.Serve(ctx, opts.HTTP, router, logger)
}

// ensureInitialized registers the owner set from the genesis file, unless
// it was registered before.
func ensureInitialized(ctx context.Context, a *app.App, genesisPath string, logger log.Logger) error {
	ok, err := a.Initialized()
	if err != nil || ok {
		return err
	}
	opts, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	logger.Info("initializing wallet from genesis", "path", genesisPath)
	return a.InitFromGenesis(ctx, opts)
}

func splitList(raw string) []string {
	var res []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}
