package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skycoin/portfwd"
	"github.com/skycoin/portfwd/cmdutil"
	"github.com/skycoin/portfwd/fwdlog"
	"github.com/skycoin/portfwd/servermetrics"
)

// envPrefix prefixes the environment variables mirroring the flags, e.g. PORTFWD_LISTEN.
const envPrefix = "portfwd"

// discordLimit suppresses repeated discord alerts of one session and message.
const discordLimit = time.Minute

// RootCmd is the portfwd command.
var RootCmd = NewRootCmd()

// NewRootCmd builds the portfwd command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfwd <target ip:port> -L <[ip:]port>",
		Short: "Forward TCP connections to a fixed target",
		Long: `
	┌─┐┌─┐┬─┐┌┬┐┌─┐┬ ┬┌┬┐
	├─┘│ │├┬┘ │ ├┤ ││││ ││
	┴  └─┘┴└─ ┴ └  └┴┘─┴┘
Listens on a local address and relays every accepted connection to the target.`,
		Example: `  portfwd 127.0.0.1:9001 -L 9000
  portfwd 10.0.0.5:5432 --listen 127.0.0.1:15432 --metrics :2121`,
		Args:                  cobra.MaximumNArgs(1),
		SilenceErrors:         true,
		SilenceUsage:          true,
		DisableSuggestions:    true,
		DisableFlagsInUseLine: true,
		RunE:                  run,
	}

	flags := cmd.Flags()
	flags.StringP("listen", "L", "", "listen address: port (binds 0.0.0.0) or ip:port")
	flags.Int("chunk-size", portfwd.DefaultChunkSize, "read buffer size of each relay direction")
	flags.Duration("dial-timeout", 0, "timeout of the outbound connect, 0 leaves it to the OS")
	flags.Uint8("proxy-protocol", 0, "send a PROXY protocol header of this version (1 or 2) to the target, 0 disables")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flags.Bool("no-color", false, "disable colored log output")
	flags.StringP("metrics", "m", "", "address to serve the metrics and health API from")
	flags.String("syslog", "", "syslog server address. E.g. localhost:514")
	flags.String("tag", "portfwd", "logging tag")

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// Execute executes root CLI command.
func Execute() error {
	return RootCmd.Execute()
}

// options are the resolved flag and environment values.
type options struct {
	target string
	listen string

	conf portfwd.Config

	logLevel    string
	noColor     bool
	metricsAddr string
	syslogAddr  string
	tag         string
}

func loadOptions(flags *pflag.FlagSet, args []string) (*options, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	opts := &options{
		target: v.GetString("target"),
		listen: v.GetString("listen"),
		conf: portfwd.Config{
			ChunkSize:     v.GetInt("chunk-size"),
			DialTimeout:   v.GetDuration("dial-timeout"),
			ProxyProtocol: uint8(v.GetUint("proxy-protocol")),
		},
		logLevel:    v.GetString("log-level"),
		noColor:     v.GetBool("no-color"),
		metricsAddr: v.GetString("metrics"),
		syslogAddr:  v.GetString("syslog"),
		tag:         v.GetString("tag"),
	}
	if len(args) > 0 {
		opts.target = args[0]
	}

	if opts.target == "" {
		return nil, errors.New("missing target address")
	}
	if opts.listen == "" {
		return nil, errors.New(`required flag "listen" not set`)
	}
	if opts.conf.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", opts.conf.ChunkSize)
	}
	if err := opts.conf.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd.Flags(), args)
	if err != nil {
		return err
	}

	targetAddr, err := portfwd.ParseTargetAddr(opts.target)
	if err != nil {
		return err
	}
	listenAddr, err := portfwd.ParseListenAddr(opts.listen)
	if err != nil {
		return err
	}

	mLog, err := fwdlog.New(fwdlog.Config{
		Level:          opts.logLevel,
		Output:         cmd.OutOrStdout(),
		ErrOutput:      cmd.ErrOrStderr(),
		NoColor:        opts.noColor,
		Tag:            opts.tag,
		SyslogAddr:     opts.syslogAddr,
		DiscordWebhook: fwdlog.DiscordWebhookFromEnv(),
		DiscordLimit:   discordLimit,
	})
	if err != nil {
		return err
	}
	log := mLog.PackageLogger(opts.tag)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := cmdutil.SignalContext(ctx, log)
	defer cancel()

	lis, err := portfwd.Listen(listenAddr.String())
	if err != nil {
		return err
	}

	m := servermetrics.NewEmpty()
	if opts.metricsAddr != "" {
		m = servermetrics.NewVictoriaMetrics()
	}
	fwd := portfwd.NewForwarder(targetAddr.String(), opts.conf, log, m)

	if opts.metricsAddr != "" {
		if err := serveAPI(ctx, log, opts.metricsAddr, newAPIHandler(log, m, fwd)); err != nil {
			_ = lis.Close() //nolint:errcheck
			return err
		}
	}

	log.Infof("forward: %s -> %s", lis.Addr(), targetAddr)
	log.Infof("* continuously listening on %s", lis.Addr())

	return fwd.Serve(ctx, lis)
}
