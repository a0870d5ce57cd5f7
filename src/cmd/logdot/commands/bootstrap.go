// FILE: logdot/src/cmd/logdot/commands/bootstrap.go
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"logdot/src/internal/config"
	"logdot/src/internal/service"

	"github.com/lixenwraith/log"
	"github.com/spf13/pflag"
)

// commonFlags are accepted by every command that talks to the API.
type commonFlags struct {
	fs *pflag.FlagSet

	configFile string
	apiKey     string
	hostname   string
	logsURL    string
	metricsURL string
	dryRun     bool
	compress   bool
	logLevel   string
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVarP(&f.configFile, "config", "c", "", "Config file path")
	fs.StringVar(&f.apiKey, "api-key", "", "API key (overrides config)")
	fs.StringVar(&f.hostname, "hostname", "", "Hostname reported with logs (overrides config)")
	fs.StringVar(&f.logsURL, "logs-url", "", "Logs API base URL (overrides config)")
	fs.StringVar(&f.metricsURL, "metrics-url", "", "Metrics API base URL (overrides config)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Print payloads instead of sending them")
	fs.BoolVar(&f.compress, "compress", false, "Gzip request bodies")
	fs.StringVar(&f.logLevel, "log-level", "", "Write diagnostics to stderr: debug, info, warn, error")
}

// overrides converts the flags that were set into config arguments. Capture
// is always off for CLI commands; run tees its child explicitly.
func (f *commonFlags) overrides() []string {
	args := []string{"--capture.logging=false", "--capture.print=false"}

	add := func(flag, key, value string) {
		if f.fs != nil && f.fs.Changed(flag) {
			args = append(args, fmt.Sprintf("--%s=%s", key, value))
		}
	}
	add("api-key", "client.api_key", f.apiKey)
	add("hostname", "client.hostname", f.hostname)
	add("logs-url", "client.logs_url", f.logsURL)
	add("metrics-url", "client.metrics_url", f.metricsURL)
	add("dry-run", "client.dry_run", fmt.Sprint(f.dryRun))
	add("compress", "client.compress", fmt.Sprint(f.compress))
	if f.fs != nil && f.fs.Changed("log-level") {
		args = append(args, "--logging.output=stderr", "--logging.level="+f.logLevel)
	}
	return args
}

// session holds what a command needs while it runs.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	svc    *service.Service
	output io.Writer
}

// start loads configuration, the diagnostic logger and the service.
func (f *commonFlags) start(output io.Writer) (*session, error) {
	if f.configFile != "" {
		os.Setenv("LOGDOT_CONFIG_FILE", f.configFile)
	}

	cfg, err := config.LoadWithCLI(f.overrides())
	if err != nil {
		return nil, err
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc, err := service.NewService(cfg, logger)
	if err != nil {
		_ = logger.Shutdown(time.Second)
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, svc: svc, output: output}, nil
}

// close shuts the service down and, on dry runs, prints what would have
// been sent.
func (s *session) close() {
	s.svc.Shutdown()

	if mem := s.svc.DryRun(); mem != nil {
		for i, req := range mem.Requests() {
			fmt.Fprintf(s.output, "[dry-run] %s %s\n", req.Endpoint, mem.Body(i))
		}
	}

	if err := s.logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}
}

// initializeLogger sets up the diagnostic logger based on configuration
func initializeLogger(cfg *config.Config) (*log.Logger, error) {
	logger := log.NewLogger()
	logCfg := cfg.Logging
	if logCfg == nil {
		logCfg = config.DefaultLogConfig()
	}

	var configArgs []string

	if logCfg.Output == "none" {
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=false",
			"level=255")
		return logger, logger.InitWithDefaults(configArgs...)
	}

	levelValue, err := parseLogLevel(logCfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	configArgs = append(configArgs, fmt.Sprintf("level=%d", levelValue))

	switch logCfg.Output {
	case "stdout":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stdout")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs, "enable_stdout=false")
		configureFileLogging(&configArgs, logCfg)

	case "both":
		configArgs = append(configArgs, "enable_stdout=true")
		configureFileLogging(&configArgs, logCfg)
		configureConsoleTarget(&configArgs, logCfg)

	default:
		return nil, fmt.Errorf("invalid log output mode: %s", logCfg.Output)
	}

	if logCfg.Console != nil && logCfg.Console.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", logCfg.Console.Format))
	}

	return logger, logger.InitWithDefaults(configArgs...)
}

func configureFileLogging(configArgs *[]string, logCfg *config.LogConfig) {
	if logCfg.File != nil {
		*configArgs = append(*configArgs,
			fmt.Sprintf("directory=%s", logCfg.File.Directory),
			fmt.Sprintf("name=%s", logCfg.File.Name),
			fmt.Sprintf("max_size_mb=%d", logCfg.File.MaxSizeMB),
			fmt.Sprintf("max_total_size_mb=%d", logCfg.File.MaxTotalSizeMB))

		if logCfg.File.RetentionHours > 0 {
			*configArgs = append(*configArgs,
				fmt.Sprintf("retention_period_hrs=%.1f", logCfg.File.RetentionHours))
		}
	}
}

func configureConsoleTarget(configArgs *[]string, logCfg *config.LogConfig) {
	target := "stderr"
	if logCfg.Console != nil && logCfg.Console.Target != "" {
		target = logCfg.Console.Target
	}

	if target == "split" {
		*configArgs = append(*configArgs, "stdout_split_mode=true")
		*configArgs = append(*configArgs, "stdout_target=split")
	} else {
		*configArgs = append(*configArgs, fmt.Sprintf("stdout_target=%s", target))
	}
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
