// Command cannon runs a declarative HTTP pipeline manifest: it loads the
// manifest, schedules its groups concurrently, and writes one JSON report
// file per test result (spec §6 CLI surface), following the teacher's
// cmd/falcon/main.go cobra+viper+godotenv wiring.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blackcoderx/cannon/internal/auth"
	"github.com/blackcoderx/cannon/internal/logging"
	"github.com/blackcoderx/cannon/internal/manifest"
	"github.com/blackcoderx/cannon/internal/report"
	"github.com/blackcoderx/cannon/internal/scheduler"
	"github.com/blackcoderx/cannon/internal/tabular"
	"github.com/blackcoderx/cannon/internal/transport"
	"github.com/blackcoderx/cannon/internal/value"
	"github.com/blackcoderx/cannon/internal/varscope"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgFile       string
	logLevel      string
	logOutputFile string
	threads       int
	groupsOnly    []string
	reportDir     string

	rootCmd = &cobra.Command{
		Use:   "cannon [file]",
		Short: "cannon runs declarative HTTP pipelines for load and integration testing",
		Long: `cannon executes a manifest describing groups of parameterised HTTP jobs
concurrently, capturing values from responses, asserting on them, threading
captured state between jobs, and emitting structured JSON test reports.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")

	rootCmd.Flags().StringVarP(&logLevel, "logging", "L", "info", "log level (off,error,warn,info,debug,trace)")
	rootCmd.Flags().StringVarP(&logOutputFile, "log-output-file", "O", "", "write logs to this file instead of stderr")
	rootCmd.Flags().IntVarP(&threads, "threads", "t", 0, "worker pool size hint")
	rootCmd.Flags().StringArrayVarP(&groupsOnly, "groups", "g", nil, "restrict to listed group names (repeatable)")
	rootCmd.Flags().StringVar(&reportDir, "report-dir", "reports", "directory to write test result JSON files into")

	_ = viper.BindPFlag("logging", rootCmd.Flags().Lookup("logging"))
	_ = viper.BindPFlag("log-output-file", rootCmd.Flags().Lookup("log-output-file"))

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cannon %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	})
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		_ = viper.ReadInConfig()
	}
	viper.SetEnvPrefix("")
	_ = viper.BindEnv("logging", "LOG_LEVEL")
	_ = viper.BindEnv("log-output-file", "LOG_OUTPUT_FILE")
	viper.AutomaticEnv()
}

func run(manifestPath string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load .env file: %v\n", err)
	}

	if viper.IsSet("logging") {
		logLevel = viper.GetString("logging")
	}
	if viper.IsSet("log-output-file") {
		logOutputFile = viper.GetString("log-output-file")
	}

	logger, err := logging.New(logLevel, logOutputFile)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	if err := resolveAuth(m, logger); err != nil {
		return fmt.Errorf("resolving auth: %w", err)
	}

	pool := varscope.NewPool(m.Vars, m.Resources, varscope.NewDefaultTemplateEngine(), tabular.Open)

	groups := scheduler.Build(m.Groups, groupsOnly, pool)
	logger.Info("manifest loaded", "name", m.Name, "groups", len(groups))

	sched := &scheduler.Scheduler{
		Pool:   pool,
		Sender: transport.NewHTTPSender(),
		Logger: logger,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		<-sigCh
		logger.Info("interrupted, exiting")
		os.Exit(0)
	}()

	writer := report.NewWriter(reportDir)
	events := sched.Run(groups)

	remaining := len(groups)
	for remaining > 0 {
		ev, ok := <-events
		if !ok {
			break
		}
		switch e := ev.(type) {
		case scheduler.Reported:
			if err := writer.Write(e.Result); err != nil {
				logger.Error("failed to write report", "err", err)
			}
		case scheduler.GroupFinished:
			logger.Info("group finished", "group", e.Group)
			remaining--
		}
	}

	return nil
}

// resolveAuth provisions a bearer token for manifests carrying a top-level
// auth block and injects it into globals["token"] before the scheduler
// starts, so "Authorization: Bearer {{token}}" header templates resolve
// from the first job onward.
func resolveAuth(m *manifest.Manifest, logger *log.Logger) error {
	if m.Auth == nil {
		return nil
	}

	ctx := context.Background()
	var token string
	var err error

	switch {
	case m.Auth.ClientCredentials != nil:
		cc := m.Auth.ClientCredentials
		token, err = auth.ClientCredentials(ctx, cc.ClientID, cc.ClientSecret, cc.TokenURL, cc.Scopes)
	case m.Auth.Password != nil:
		pw := m.Auth.Password
		token, err = auth.Password(ctx, pw.ClientID, pw.ClientSecret, pw.TokenURL, pw.Username, pw.Password, pw.Scopes)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("provisioned bearer token")
	m.Vars.Set("token", value.String(token))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
