// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/sirseer-ghas/internal/committers"
	"github.com/sirseerhq/sirseer-ghas/internal/config"
	"github.com/sirseerhq/sirseer-ghas/internal/github"
	"github.com/sirseerhq/sirseer-ghas/internal/logger"
	"github.com/sirseerhq/sirseer-ghas/internal/metadata"
	"github.com/sirseerhq/sirseer-ghas/internal/output"
	"github.com/sirseerhq/sirseer-ghas/internal/report"
	"github.com/sirseerhq/sirseer-ghas/pkg/version"
)

// usageError marks invalid invocations; the usage text is printed with it.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

// options holds the raw flag values.
type options struct {
	token          string
	configPath     string
	outputFile     string
	format         string
	apiURL         string
	graphqlURL     string
	timeout        time.Duration
	withEnterprise bool
	metadataDir    string
	logLevel       string
}

// settings is the resolved configuration of one run.
type settings struct {
	enterprise     string
	token          string
	apiURL         string
	graphqlURL     string
	format         output.Format
	outputFile     string
	timeout        time.Duration
	withEnterprise bool
	metadataDir    string
	logLevel       string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "sirseer-ghas <enterprise-id> [github-token]",
		Short: "Report GitHub Advanced Security committers for an enterprise",
		Long: `SirSeer GHAS reads the GitHub Advanced Security billing report of an
enterprise, following every page of the billing API, and reports the unique
committers of each organization together with the enterprise totals.

Authentication is required via GitHub token:
  - Pass it as the second argument
  - Or use the --token flag
  - Or set GITHUB_TOKEN (or the variable named by github.token_env)`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return &usageError{msg: fmt.Sprintf("accepts at most 2 arguments, received %d", len(args))}
			}
			return nil
		},
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd.Flags(), &opts, args)
			if err != nil {
				return err
			}

			if err := logger.Init(s.logLevel, cmd.ErrOrStderr()); err != nil {
				return err
			}

			ctx := cmd.Context()
			if s.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.timeout)
				defer cancel()
			}

			return runReport(ctx, s, cmd.OutOrStdout())
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
	bindFlags(cmd.Flags(), &opts)

	return cmd
}

// bindFlags registers the command line flags on fs.
func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVar(&o.token, "token", "", "GitHub token (overrides the token environment variable)")
	fs.StringVar(&o.configPath, "config", "", "Path to a YAML config file (default: .sirseer-ghas.yaml or ~/.sirseer/ghas.yaml)")
	fs.StringVarP(&o.outputFile, "output", "o", "", "Output file path (default: stdout)")
	fs.StringVarP(&o.format, "format", "f", "json", "Output format: json, ndjson or xlsx (xlsx requires --output)")
	fs.StringVar(&o.apiURL, "api-url", "", "GitHub REST API endpoint (default: https://api.github.com)")
	fs.StringVar(&o.graphqlURL, "graphql-url", "", "GitHub GraphQL API endpoint (default: https://api.github.com/graphql)")
	fs.DurationVar(&o.timeout, "timeout", 5*time.Minute, "Overall timeout for the run (0 disables it)")
	fs.BoolVar(&o.withEnterprise, "with-enterprise", false, "Look up the enterprise name and URL over GraphQL")
	fs.StringVar(&o.metadataDir, "metadata-dir", "", "Directory for fetch metadata files (disabled when empty)")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

// resolveSettings merges arguments, flags and configuration. Flags win
// over environment variables, which win over config files and defaults.
func resolveSettings(fs *pflag.FlagSet, o *options, args []string) (*settings, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, &usageError{msg: "enterprise id is required"}
	}
	enterprise := strings.TrimSpace(args[0])

	cfg, err := config.LoadConfigForEnterprise(o.configPath, enterprise)
	if err != nil {
		return nil, err
	}

	if fs.Changed("api-url") {
		cfg.GitHub.APIEndpoint = o.apiURL
	}
	if fs.Changed("graphql-url") {
		cfg.GitHub.GraphQLEndpoint = o.graphqlURL
	}
	if fs.Changed("format") {
		cfg.Defaults.OutputFormat = o.format
	}
	if fs.Changed("timeout") {
		cfg.Defaults.Timeout = config.Duration(o.timeout)
	}
	if fs.Changed("log-level") {
		cfg.Defaults.LogLevel = o.logLevel
	}
	if fs.Changed("metadata-dir") {
		cfg.Defaults.MetadataDir = o.metadataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	token := getToken(args, o.token, cfg)
	if token == "" {
		return nil, &usageError{msg: fmt.Sprintf(
			"GitHub token not found. Pass it as an argument, use --token, or set %s", cfg.GitHub.TokenEnv)}
	}

	format, err := output.ParseFormat(cfg.Defaults.OutputFormat)
	if err != nil {
		return nil, err
	}
	if format == output.FormatXLSX && o.outputFile == "" {
		return nil, fmt.Errorf("xlsx output requires --output")
	}

	return &settings{
		enterprise:     enterprise,
		token:          token,
		apiURL:         cfg.GitHub.APIEndpoint,
		graphqlURL:     cfg.GitHub.GraphQLEndpoint,
		format:         format,
		outputFile:     o.outputFile,
		timeout:        cfg.TimeoutDuration(),
		withEnterprise: o.withEnterprise,
		metadataDir:    cfg.Defaults.MetadataDir,
		logLevel:       cfg.Defaults.LogLevel,
	}, nil
}

// getToken returns the GitHub token from the positional argument, the flag
// or the configured environment variable, in that order.
func getToken(args []string, flagToken string, cfg *config.Config) string {
	if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
		return strings.TrimSpace(args[1])
	}
	if flagToken != "" {
		return flagToken
	}
	return cfg.Token()
}

// countingClient records every billing request on the tracker.
type countingClient struct {
	github.UsageClient
	tracker *metadata.Tracker
}

func (c countingClient) FetchUsagePage(ctx context.Context, enterprise string, opts github.PageOptions) (*github.UsagePage, error) {
	c.tracker.IncrementAPICall()
	return c.UsageClient.FetchUsagePage(ctx, enterprise, opts)
}

// runReport fetches the billing report, aggregates committers and writes
// the result. Nothing is written when the fetch fails.
func runReport(ctx context.Context, s *settings, stdout io.Writer) error {
	tracker := metadata.New()
	log := logger.WithField("enterprise", s.enterprise)

	client, err := github.NewRESTClient(s.token, s.apiURL)
	if err != nil {
		return err
	}

	log.Info("Fetching Advanced Security billing report")
	usage, err := github.FetchAllUsage(ctx, countingClient{UsageClient: client, tracker: tracker}, s.enterprise,
		github.WithPageHook(func(e github.PageEvent) {
			tracker.RecordPage(e.Repositories)
			log.WithFields(logrus.Fields{
				"page":         e.Page,
				"repositories": e.Repositories,
				"total":        e.Total,
			}).Info("Fetched page")
		}),
		github.WithInconsistencyHook(func(inc github.Inconsistency) {
			tracker.RecordInconsistency()
			log.Warnf("Billing totals changed while paging: %s", inc)
		}),
	)
	if err != nil {
		return err
	}

	var info *github.EnterpriseInfo
	if s.withEnterprise {
		tracker.IncrementAPICall()
		info, err = github.NewGraphQLClient(s.token, s.graphqlURL).GetEnterprise(ctx, s.enterprise)
		if err != nil {
			return err
		}
	}

	orgs := committers.Aggregate(usage)
	rep := report.Build(usage, orgs, info)

	if err := writeReport(rep, s.format, s.outputFile, stdout); err != nil {
		return err
	}

	unique := orgs.Committers().Len()
	log.WithFields(logrus.Fields{
		"repositories":  len(usage.Repositories),
		"organizations": len(orgs),
		"committers":    unique,
	}).Info("Report complete")

	if s.metadataDir != "" {
		saveMetadata(tracker, s, len(orgs), unique)
	}

	return nil
}

// writeReport renders rep in the requested format. NDJSON emits one line
// per organization; the other formats write the whole report.
func writeReport(rep *report.Report, format output.Format, path string, stdout io.Writer) (err error) {
	w, err := output.New(format, path, stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	if format == output.FormatNDJSON {
		for _, rec := range rep.Records() {
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}
	return w.Write(rep)
}

// saveMetadata stores the run statistics. Failures are logged and do not
// fail the run since the report has already been written.
func saveMetadata(tracker *metadata.Tracker, s *settings, organizations, unique int) {
	log := logger.WithField("enterprise", s.enterprise)

	var previous *metadata.FetchRef
	if last, err := metadata.LoadLatestMetadata(s.metadataDir, s.enterprise); err != nil {
		logger.WithError(err).WithField("enterprise", s.enterprise).Warn("Could not read previous fetch metadata")
	} else if last != nil {
		previous = last.Ref()
		log.Infof("Unique committers changed by %+d since fetch %s", unique-previous.UniqueCommitters, previous.FetchID)
	}

	params := metadata.FetchParams{
		Enterprise:     s.enterprise,
		APIEndpoint:    s.apiURL,
		PerPage:        github.MaxPageSize,
		OutputFormat:   string(s.format),
		WithEnterprise: s.withEnterprise,
	}
	m := tracker.GenerateMetadata(version.Version, github.APIVersion, params, organizations, unique, previous)

	path, err := metadata.SaveMetadata(m, s.metadataDir)
	if err != nil {
		logger.WithError(err).WithField("enterprise", s.enterprise).Warn("Could not save fetch metadata")
		return
	}
	log.WithField("path", path).Debug("Saved fetch metadata")
}
