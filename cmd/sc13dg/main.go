package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	sc13dg "github.com/RxDataLab/go-sc13dg"
	"github.com/RxDataLab/go-sc13dg/internal/config"
	"github.com/RxDataLab/go-sc13dg/internal/store"
)

var (
	configPath string
	emailFlag  string
	cfg        *config.Config
	logger     *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sc13dg",
		Short: "Extract beneficial ownership data from Schedule 13D/13G filings",
		Long: `sc13dg segments SEC Schedule 13D and 13G filings into their title page,
reporting (cover) pages, item section, signatures and exhibits, and
extracts one record per reporting person from the cover pages.

Sources may be local files or EDGAR URLs. Requests to EDGAR require an
email address for the User-Agent header (--email, SC13DG_SEC_EMAIL or SEC_EMAIL).`,
		Version:       sc13dg.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if emailFlag != "" {
				cfg.SEC.Email = emailFlag
			}
			logger = cfg.Log.NewLogger(os.Stderr)
			slog.SetDefault(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./sc13dg.yaml or ~/.sc13dg/sc13dg.yaml)")
	rootCmd.PersistentFlags().StringVarP(&emailFlag, "email", "e", "", "email for SEC User-Agent header")

	rootCmd.AddCommand(segmentCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(feedCmd())
	rootCmd.AddCommand(runCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment <file-or-url>",
		Short: "Print the segment map of a filing document",
		Example: `  sc13dg segment ./0001104659-23-018361.txt
  sc13dg segment --form "SC 13D/A" ./primary.htm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, _ := cmd.Flags().GetString("form")
			output, _ := cmd.Flags().GetString("output")

			text, form, err := loadDocument(cmd.Context(), args[0], form)
			if err != nil {
				return err
			}
			m, err := sc13dg.Segment(text, form)
			if err != nil {
				return err
			}
			if err := m.Validate(); err != nil {
				logger.Warn("segment map out of order", "error", err)
			}
			return writeJSON(output, m)
		},
	}
	cmd.Flags().StringP("form", "f", "", "form type, e.g. \"SC 13G/A\" (read from the submission when omitted)")
	cmd.Flags().StringP("output", "o", "", "output JSON file path (default: stdout)")
	return cmd
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file-or-url>",
		Short: "Extract reporting-page records from a filing document",
		Example: `  sc13dg extract ./0001104659-23-018361.txt
  sc13dg extract https://www.sec.gov/Archives/edgar/data/1631574/000119312525314736/primary_doc.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, _ := cmd.Flags().GetString("form")
			output, _ := cmd.Flags().GetString("output")

			text, form, err := loadDocument(cmd.Context(), args[0], form)
			if err != nil {
				return err
			}
			ext, err := sc13dg.ExtractRecords(text, form)
			if err != nil {
				if ext != nil {
					_ = writeJSON(output, ext)
				}
				return err
			}
			return writeJSON(output, ext)
		},
	}
	cmd.Flags().StringP("form", "f", "", "form type, e.g. \"SC 13G/A\" (read from the submission when omitted)")
	cmd.Flags().StringP("output", "o", "", "output JSON file path (default: stdout)")
	return cmd
}

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <master.idx> | <year> <quarter>",
		Short: "List Schedule 13D/13G filings from an EDGAR master index",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, _ := cmd.Flags().GetString("form")
			output, _ := cmd.Flags().GetString("output")

			refs, err := indexRefs(cmd.Context(), args, form)
			if err != nil {
				return err
			}
			logger.Info("index loaded", "filings", len(refs))
			return writeJSON(output, refs)
		},
	}
	cmd.Flags().StringP("form", "f", "13", "form filter: 13, 13D, 13G, SC 13D/A, ...")
	cmd.Flags().StringP("output", "o", "", "output JSON file path (default: stdout)")
	return cmd
}

func feedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List the latest Schedule 13D/13G filings from EDGAR's current feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			f, err := newFetcher()
			if err != nil {
				return err
			}
			refs, err := sc13dg.FetchCurrentFeed(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeJSON(output, refs)
		},
	}
	cmd.Flags().StringP("output", "o", "", "output JSON file path (default: stdout)")
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, extract and store a batch of filings",
		Long: `Run processes every filing from one source and appends the results to
the database. Documents already in the database are skipped, so an
interrupted run can be resumed.`,
		Example: `  sc13dg run --year 2023 --quarter 1
  sc13dg run --index ./master.idx --workers 8
  sc13dg run --cik 1000045
  sc13dg run --feed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			indexFile, _ := cmd.Flags().GetString("index")
			year, _ := cmd.Flags().GetInt("year")
			quarter, _ := cmd.Flags().GetInt("quarter")
			cik, _ := cmd.Flags().GetString("cik")
			useFeed, _ := cmd.Flags().GetBool("feed")
			workers, _ := cmd.Flags().GetInt("workers")
			limit, _ := cmd.Flags().GetInt("limit")
			if cmd.Flags().Changed("resolve") {
				cfg.SEC.ResolveDocuments, _ = cmd.Flags().GetBool("resolve")
			}

			f, err := newFetcher()
			if err != nil {
				return err
			}

			var (
				refs   []sc13dg.FilingRef
				source string
			)
			switch {
			case indexFile != "":
				source = indexFile
				refs, err = indexRefs(ctx, []string{indexFile}, "13")
			case year > 0:
				source = fmt.Sprintf("master.idx %d Q%d", year, quarter)
				refs, err = sc13dg.FetchMasterIndex(ctx, f, year, quarter, "13")
			case cik != "":
				source = "CIK " + cik
				refs, err = cikRefs(ctx, f, cik)
			case useFeed:
				source = "current feed"
				refs, err = sc13dg.FetchCurrentFeed(ctx, f)
			default:
				return fmt.Errorf("one of --index, --year, --cik or --feed is required")
			}
			if err != nil {
				return err
			}
			if limit > 0 && len(refs) > limit {
				refs = refs[:limit]
			}

			db, err := store.Open(cfg.Storage.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			done, err := db.Processed(ctx)
			if err != nil {
				return err
			}
			runID, err := db.StartRun(ctx, source, len(refs))
			if err != nil {
				return err
			}

			var texts sc13dg.TextFetcher = f
			if cfg.Storage.CacheDir != "" {
				texts = sc13dg.NewDirCache(cfg.Storage.CacheDir, f)
			}
			if workers <= 0 {
				workers = cfg.Batch.Workers
			}

			batch := &sc13dg.Batch{
				Fetcher: texts,
				Sink:    db.Run(runID),
				Workers: workers,
				Done:    done,
				Logger:  logger.With("run", runID),
			}
			res, runErr := batch.Run(ctx, refs)
			if err := db.FinishRun(context.WithoutCancel(ctx), runID, res); err != nil {
				return err
			}
			fmt.Printf("Run %s: %d filings, %d skipped, %d succeeded, %d failed, %d unavailable\n",
				runID, res.Total, res.Skipped, res.Succeeded, res.Failed, res.Unavailable)
			return runErr
		},
	}
	cmd.Flags().String("index", "", "local master.idx file")
	cmd.Flags().Int("year", 0, "fetch the master index of this year")
	cmd.Flags().Int("quarter", 1, "quarter of --year (1-4)")
	cmd.Flags().String("cik", "", "process the Schedule 13D/13G filings of this CIK")
	cmd.Flags().Bool("feed", false, "process the current-filings feed")
	cmd.Flags().IntP("workers", "w", 0, "number of workers (default from config)")
	cmd.Flags().Int("limit", 0, "process at most this many filings")
	cmd.Flags().Bool("resolve", false, "fetch primary documents listed on index pages instead of .txt submissions")
	return cmd
}

func newFetcher() (*sc13dg.Fetcher, error) {
	return sc13dg.NewFetcher(cfg.SEC.Email,
		sc13dg.WithRateLimit(cfg.SEC.RequestsPerSecond),
		sc13dg.WithTimeout(cfg.SEC.Timeout),
		sc13dg.WithMaxRetries(cfg.SEC.MaxRetries),
		sc13dg.WithDocumentResolution(cfg.SEC.ResolveDocuments),
		sc13dg.WithLogger(logger),
	)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// loadDocument reads a file or URL. A full .txt submission is reduced to
// its main document, whose type supplies the form when none is given.
func loadDocument(ctx context.Context, source, form string) (string, string, error) {
	var raw string
	if isURL(source) {
		f, err := newFetcher()
		if err != nil {
			return "", "", err
		}
		if strings.HasSuffix(source, "-index.htm") {
			return loadIndexedDocument(ctx, f, source, form)
		}
		body, err := f.Get(ctx, source)
		if err != nil {
			return "", "", err
		}
		raw = string(body)
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", "", fmt.Errorf("failed to read file: %w", err)
		}
		raw = string(data)
	}

	if strings.Contains(raw, "<DOCUMENT>") {
		sub, err := sc13dg.ParseSubmission(raw)
		if err != nil {
			return "", "", err
		}
		doc, err := sub.MainDocument()
		if err != nil {
			return "", "", err
		}
		if form == "" {
			form = doc.Type
		}
		if sc13dg.DetectDocumentKind([]byte(doc.Text)) != sc13dg.KindText {
			return doc.Text, form, nil
		}
		return doc.Raw, form, nil
	}

	if form == "" && sc13dg.DetectDocumentKind([]byte(raw)) != sc13dg.KindText {
		filing, err := sc13dg.ParseSchedule13XML([]byte(raw))
		if err != nil {
			return "", "", err
		}
		form = filing.FormType.String()
	}
	if form == "" {
		return "", "", fmt.Errorf("--form is required for a standalone document")
	}
	return raw, form, nil
}

// loadIndexedDocument fetches the primary document named on an index page.
func loadIndexedDocument(ctx context.Context, f *sc13dg.Fetcher, source, form string) (string, string, error) {
	ref, err := sc13dg.ParseFilingURL(source)
	if err != nil {
		return "", "", err
	}
	resolved, err := sc13dg.ResolveDocument(ctx, f, *ref)
	if err != nil {
		return "", "", err
	}
	text, err := f.FetchFilingText(ctx, resolved)
	if err != nil {
		return "", "", err
	}
	if form == "" {
		form = resolved.FormType
	}
	if form == "" {
		return "", "", fmt.Errorf("--form is required: index page names no Schedule 13D/13G form")
	}
	return text, form, nil
}

func indexRefs(ctx context.Context, args []string, form string) ([]sc13dg.FilingRef, error) {
	if len(args) == 2 {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", args[0])
		}
		quarter, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid quarter %q", args[1])
		}
		f, err := newFetcher()
		if err != nil {
			return nil, err
		}
		return sc13dg.FetchMasterIndex(ctx, f, year, quarter, form)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer file.Close()
	return sc13dg.ParseMasterIndex(file, form)
}

func cikRefs(ctx context.Context, f *sc13dg.Fetcher, cik string) ([]sc13dg.FilingRef, error) {
	subs, err := sc13dg.FetchSubmissions(ctx, f, cik)
	if err != nil {
		return nil, err
	}
	filings, err := subs.GetAllFilings(ctx, f)
	if err != nil {
		return nil, err
	}
	return subs.RefsFor(filings), nil
}

func writeJSON(path string, v any) error {
	if path != "" {
		if err := sc13dg.SaveJSON(path, v); err != nil {
			return err
		}
		logger.Info("saved output", "path", path)
		return nil
	}
	data, err := sc13dg.FormatJSON(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
