// Package cmd implements the reciplore command tree.
//
// Every command that touches the account restores the stored session
// first, the way the web client does on page load.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/ux"
)

// rootOptions holds the persistent flags. They override config values.
type rootOptions struct {
	configPath  string
	format      string
	apiURL      string
	metricsFile string
	verbose     bool
	noColor     bool
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "reciplore",
		Short: "Reciplore from the terminal",
		Long: `reciplore is a command-line client for the Reciplore recipe and
ingredient marketplace. It signs you in with email and a verification
code, keeps the session in ~/.reciplore, and lets you browse recipes,
manage your cart and place orders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationNoSetup] == "true" {
				return nil
			}
			return a.setup(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.reciplore/config.yaml)")
	flags.StringVarP(&opts.format, "format", "o", "", "output format: text, json, yaml")
	flags.StringVar(&opts.apiURL, "api-url", "", "backend base URL, overrides api.base_url")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newAuthCmd(a),
		newProfileCmd(a),
		newAddressCmd(a),
		newRecipesCmd(a),
		newMarketCmd(a),
		newCartCmd(a),
		newOrdersCmd(a),
		newAICmd(a),
		newDoctorCmd(a),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root, a
}

// Run executes args against a fresh command tree, reports a failure on
// stderr and releases the resources set up for the run. Metrics are
// flushed even when the command fails.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		reportError(stderr, err, a.notifier.raised())
	}
	return err
}

// Execute runs the process command line.
func Execute(ctx context.Context) error {
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// reportError prints err with its recovery hints. When the session
// already raised the message as a notification only the hints are printed.
func reportError(w io.Writer, err error, notified bool) {
	if !notified {
		fmt.Fprintf(w, "Error: %s\n", describe(err))
	}
	for _, hint := range hints(ux.EnhanceError(err)) {
		fmt.Fprintf(w, "Suggestion: %s\n", hint)
	}
}

// describe drops the error code, which means nothing to a person.
func describe(err error) string {
	appErr, ok := apperrors.As(err)
	if !ok {
		return err.Error()
	}
	if appErr.Cause != nil && appErr.Kind == apperrors.KindUnknown {
		return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
	}
	return appErr.Message
}

func hints(err error) []string {
	var s *ux.ErrorWithSuggestion
	if errors.As(err, &s) && s.Suggestion != "" {
		return []string{s.Suggestion}
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Suggestions
	}
	return nil
}
