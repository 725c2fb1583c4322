package cmd

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/reciplore/reciplore/internal/api"
	"github.com/reciplore/reciplore/internal/config"
	"github.com/reciplore/reciplore/internal/cookie"
	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/log"
	"github.com/reciplore/reciplore/internal/metrics"
	"github.com/reciplore/reciplore/internal/notify"
	"github.com/reciplore/reciplore/internal/session"
	"github.com/reciplore/reciplore/internal/telemetry"
	"github.com/reciplore/reciplore/internal/ux"
	"github.com/reciplore/reciplore/internal/version"
)

// annotationNoSetup marks commands that run without config or a session.
const annotationNoSetup = "reciplore/no-setup"

// app holds the dependencies shared by the commands of one invocation.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	client    *api.Client
	jar       *cookie.FileJar
	session   *session.Manager
	notifier  *trackingNotifier
	formatter ux.Formatter
	registry  *prometheus.Registry
	stdout    io.Writer
	noColor   bool

	metricsFile string
	shutdown    func(context.Context) error
	restored    bool
}

func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.noColor {
		cfg.Output.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.stdout = cmd.OutOrStdout()
	a.noColor = cfg.Output.NoColor
	a.metricsFile = opts.metricsFile

	logCfg := log.Config{
		Level:  log.ParseLevel(cfg.Log.Level),
		Format: log.ParseFormat(cfg.Log.Format),
	}
	if opts.verbose {
		logCfg = log.DebugConfig()
	}
	logCfg.Output = cmd.ErrOrStderr()
	a.logger = log.New(logCfg).With("command", cmd.CommandPath())

	a.shutdown = telemetry.InitProvider(telemetry.Config{
		ServiceName:    "reciplore",
		ServiceVersion: version.Version,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRate:     cfg.Telemetry.SampleRate,
	})

	registry, m := metrics.NewRegistry()
	a.registry = registry

	jar, err := cookie.NewFileJar(cfg.Storage.CookiePath)
	if err != nil {
		return err
	}
	a.jar = jar

	a.client = api.NewClient(cfg.API.BaseURL).
		WithTimeout(cfg.API.Timeout).
		WithMetrics(m)

	a.notifier = &trackingNotifier{Notifier: notify.NewTerminal(cmd.ErrOrStderr(), a.noColor)}
	a.session = session.New(a.client, jar,
		session.WithNotifier(a.notifier),
		session.WithLogger(a.logger),
		session.WithMetrics(m),
	)

	a.formatter, err = ux.NewFormatter(cfg.Output.Format, &ux.FormatterOptions{
		Writer:  a.stdout,
		NoColor: a.noColor,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeConfigInvalid, apperrors.KindUnknown,
			"invalid output format", err)
	}

	a.logger.Debug("configured", "base_url", cfg.API.BaseURL, "cookies", jar.Path())
	return nil
}

// close flushes telemetry and metrics. Safe to call when setup never ran.
func (a *app) close(ctx context.Context) error {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil && a.logger != nil {
			a.logger.WithError(err).Warn("failed to flush traces")
		}
	}
	if a.metricsFile == "" || a.registry == nil {
		return nil
	}
	if err := metrics.WriteTextfile(a.metricsFile, a.registry); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeFileWriteFailed, apperrors.KindUnknown,
			"failed to write metrics file", err)
	}
	return nil
}

// restore runs session restoration once per invocation.
func (a *app) restore(ctx context.Context) bool {
	if !a.restored {
		a.restored = true
		return a.session.RestoreSession(ctx)
	}
	return a.session.IsAuthenticated()
}

// requireSession restores the session and fails when nobody is logged in.
func (a *app) requireSession(ctx context.Context) error {
	if a.restore(ctx) {
		return nil
	}
	return apperrors.NewNoAccessTokenError()
}

// withToken calls fn with the access token. A 401 or 403 triggers one
// refresh and one retry.
func (a *app) withToken(ctx context.Context, fn func(token string) error) error {
	if err := a.requireSession(ctx); err != nil {
		return err
	}
	token, err := a.session.AccessToken()
	if err != nil {
		return err
	}

	err = fn(token)
	if !apperrors.IsUnauthorized(err) {
		return err
	}

	a.logger.WithError(err).Debug("access token rejected, refreshing")
	token, rerr := a.session.RefreshAccessToken(ctx)
	if rerr != nil {
		return err
	}
	return fn(token)
}

func (a *app) render(doc ux.Document) error {
	return a.formatter.Format(doc)
}

// trackingNotifier remembers whether an error notification was raised.
type trackingNotifier struct {
	notify.Notifier
	errors int
}

func (n *trackingNotifier) Error(msg string) {
	n.errors++
	n.Notifier.Error(msg)
}

func (n *trackingNotifier) raised() bool {
	return n != nil && n.errors > 0
}
