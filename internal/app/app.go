// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cleavr/core/profile"
	"cleavr/internal/appcore"
	"cleavr/internal/cli"
	"cleavr/internal/config"
	"cleavr/internal/version"
)

// RunContext builds a fresh command tree, executes argv and returns the
// process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	root := newRoot(stdout, stderr, &code)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(parent); err != nil {
		if errors.Is(err, context.Canceled) {
			return appcore.ExitCancelled
		}
		fmt.Fprintln(stderr, "error:", err)
		return appcore.ExitUsage
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// load decodes flags, CLEAVR_* variables and the optional --config file.
func load(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(cmd.Flags(), file)
}

func newRoot(stdout, stderr io.Writer, code *int) *cobra.Command {
	root := &cobra.Command{
		Use:   "cleavr",
		Short: "Attribute observed peptides to the proteases that produced them",
		Long: `cleavr places each observed peptide in its source protein, cuts the
cleavage windows on both sides and scores them against a library of protease
site motifs. The best-scoring enzyme per window is reported per protein.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().BoolP("quiet", "q", false, "suppress warnings and the run summary")

	root.AddCommand(
		newAnalyzeCmd(stdout, stderr, code),
		newProfileCmd(stdout, stderr, code),
		newEnzymesCmd(stdout, stderr, code),
		newProteinsCmd(stdout, stderr, code),
	)
	return root
}

// ---- analyze ----

func newAnalyzeCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Attribute cleavage windows to enzymes and summarize per protein",
		Example: `  cleavr analyze -f proteome.fa.gz -p peptides.csv
  cleavr analyze -f proteome.fa -p peptides.tsv --standard --top-k 0 -o json
  cleavr analyze -f proteome.fa -p peptides.tsv --matches windows.tsv.gz --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateAnalyze(); err != nil {
				return err
			}
			header := !cfg.NoHeader
			*code = appcore.Analyze(cmd.Context(), stdout, stderr,
				appcore.OptionsFromConfig(cfg),
				appcore.NewSummaryWriterFactory(cfg.Output, cfg.Sort, header, cfg.Pretty),
				appcore.NewMatchWriterFactory(cfg.Matches, cfg.Output, header),
			)
			return nil
		},
	}
	fs := cmd.Flags()
	cli.RegisterInputs(fs)
	cli.RegisterModel(fs)
	cli.RegisterRun(fs)
	cli.RegisterOutput(fs)
	cli.RegisterAnalyze(fs)
	return cmd
}

// ---- profile ----

func newProfileCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Per-residue coverage, intensity and cleavage counts",
		Example: `  cleavr profile -f proteome.fa -p peptides.tsv --protein P02769
  cleavr profile -f proteome.fa -p peptides.tsv --group-by sample --method median -o jsonl
  cleavr profile -f proteome.fa -p peptides.tsv --metadata samples.csv --group-by Condition --group treated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateProfile(); err != nil {
				return err
			}
			m, _ := profile.ParseMethod(cfg.Method)
			po := profile.Options{
				GroupBy:  profile.GroupBy(cfg.GroupBy),
				Method:   m,
				Proteins: cfg.ProteinIDs,
				Samples:  cfg.Samples,
				Groups:   cfg.Groups,
			}
			*code = appcore.Profile(cmd.Context(), stdout, stderr,
				appcore.OptionsFromConfig(cfg), po, cfg.Output, !cfg.NoHeader)
			return nil
		},
	}
	fs := cmd.Flags()
	cli.RegisterInputs(fs)
	cli.RegisterRun(fs)
	cli.RegisterOutput(fs)
	cli.RegisterProfile(fs)
	return cmd
}

// ---- enzymes ----

func newEnzymesCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	run := func(cmd *cobra.Command, query string) error {
		cfg, err := load(cmd)
		if err != nil {
			return err
		}
		if err := cfg.ValidateOutput(); err != nil {
			return err
		}
		*code = appcore.Enzymes(cmd.Context(), stdout, stderr,
			appcore.OptionsFromConfig(cfg), query, cfg.Output, !cfg.NoHeader)
		return nil
	}
	cmd := &cobra.Command{
		Use:   "enzymes",
		Short: "List the enzyme library after filtering",
		Long: `Lists the standard enzymes plus any loaded from --enzymes, after the
--standard / --species / --enzyme-names filter.

	<code> <name> <species> <standard> <pattern>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error { return run(cmd, "") },
	}
	find := &cobra.Command{
		Use:                        "find [name]",
		Short:                      "Find enzymes by name",
		SuggestionsMinimumDistance: 2,
		Long: `Find enzymes whose name or code matches [name] exactly (ignoring case).
Otherwise, enzymes sharing a word stem with [name] are listed.`,
		Example: "  cleavr enzymes find chymotrypsin",
		Args:    cobra.ExactArgs(1),
		RunE:    func(cmd *cobra.Command, args []string) error { return run(cmd, args[0]) },
	}
	fs := cmd.PersistentFlags()
	cli.RegisterModel(fs)
	cli.RegisterOutput(fs)
	cmd.AddCommand(find)
	return cmd
}

// ---- proteins ----

func newProteinsCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proteins",
		Short:   "Search protein IDs referenced by a peptide table",
		Example: "  cleavr proteins -p peptides.tsv --filter ALB --limit 10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if cfg.Peptides == "" {
				return fmt.Errorf("--peptides is required")
			}
			*code = appcore.Proteins(cmd.Context(), stdout, stderr, cfg.Peptides, cfg.Filter, cfg.Limit, cfg.NoMatchExitCode)
			return nil
		},
	}
	cli.RegisterProteins(cmd.Flags())
	return cmd
}
