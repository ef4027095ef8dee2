package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Filtering
	flagExts          []string
	flagExcludeExts   []string
	flagIncludes      []string
	flagExcludes      []string
	flagHidden        bool
	flagIncludeBinary bool
	flagNoIgnore      bool
	flagCaseSensitive bool

	// Traversal
	flagNoRecursive bool
	flagMaxDepth    int

	// Output shape
	flagText     bool
	flagXML      bool
	flagTree     bool
	flagNoTree   bool
	flagNoDirs   bool
	flagNoTitle  bool
	flagNoParams bool
	flagNoPaths  bool

	// Destinations
	flagOutput    string
	flagOutputDir string
	flagInputDir  string
	flagClipboard bool
	flagPDF       string

	// Tokens
	flagTokens bool
	flagModel  string

	// Housekeeping / diagnostics
	flagNoPurge bool
	flagVerbose bool
	flagDebug   bool
)

// version is set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "concat [extensions | files | directories | globs]...",
	Short: "concat merges matched files into a single text or XML document",
	Long: `concat discovers files under one or more roots, filters them by
extension, glob pattern, hidden-file policy and binary detection, and
serializes the matched files into one aggregate document, optionally
prefixed by a directory tree.

Positional arguments naming an existing file or directory (or containing a
path separator or wildcard) are inputs; bare tokens like "py" are extension
filters.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(args)
		if err != nil {
			return err
		}
		renderer := fallbackTreeRenderer{
			primary:   externalTreeRenderer{},
			secondary: nativeTreeRenderer{includeHidden: cfg.IncludeHidden},
		}
		return runConcat(cfg, renderer)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()

	flags.StringSliceVarP(&flagExts, "ext", "x", nil, "Extensions to include (may repeat, e.g. -x py -x md)")
	flags.StringSliceVar(&flagExcludeExts, "exclude-ext", nil, "Extensions to exclude (evaluated before includes)")
	flags.StringSliceVarP(&flagIncludes, "include", "i", nil, "Include glob patterns (supports *, ?, **)")
	flags.StringSliceVarP(&flagExcludes, "exclude", "e", nil, "Exclude glob patterns; a bare filename matches at any depth")
	flags.BoolVarP(&flagHidden, "hidden", "H", false, "Include hidden files and directories")
	flags.BoolVar(&flagIncludeBinary, "include-binary", false, "Keep files that fail the text heuristic")
	flags.BoolVar(&flagNoIgnore, "no-ignore", false, "Don't respect .gitignore files")
	flags.BoolVar(&flagCaseSensitive, "case-sensitive", false, "Case-sensitive extension and glob matching")

	flags.BoolVar(&flagNoRecursive, "no-recursive", false, "Only scan direct children of directory inputs")
	flags.IntVar(&flagMaxDepth, "max-depth", 0, "Maximum directory depth to traverse (0 for no limit)")

	flags.BoolVar(&flagText, "text", false, "Produce a plain-text document")
	flags.BoolVar(&flagXML, "xml", false, "Produce an XML document (default)")
	flags.BoolVarP(&flagTree, "tree", "t", false, "Include a directory tree section")
	flags.BoolVar(&flagNoTree, "no-tree", false, "Suppress the directory tree section")
	flags.BoolVar(&flagNoDirs, "no-dirs", false, "Suppress the matched-directories section")
	flags.BoolVar(&flagNoTitle, "no-title", false, "Suppress the title section")
	flags.BoolVar(&flagNoParams, "no-params", false, "Suppress the parameters section")
	flags.BoolVar(&flagNoPaths, "no-paths", false, "Omit relative/absolute paths from file headers")

	flags.StringVarP(&flagOutput, "output", "o", "", "Output filename (extension forced to match the format)")
	flags.StringVar(&flagOutputDir, "output-dir", "", "Directory to write the output document into")
	flags.StringVar(&flagInputDir, "input-dir", "", "Directory to scan (in addition to positional inputs)")
	flags.BoolVarP(&flagClipboard, "clipboard", "c", false, "Copy the document to the clipboard instead of writing a file")
	flags.StringVar(&flagPDF, "pdf", "", "Also render a syntax-highlighted PDF to this path")

	flags.BoolVar(&flagTokens, "tokens", false, "Count tokens per matched file (tiktoken)")
	flags.StringVar(&flagModel, "model", "", "Tokenizer model (default gpt-4o)")

	flags.BoolVar(&flagNoPurge, "no-purge-pycache", false, "Skip removing __pycache__/.pytest_cache before scanning")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose progress output")
	flags.BoolVar(&flagDebug, "debug", false, "Per-file filter diagnostics")

	for _, name := range []string{
		"ext", "exclude-ext", "include", "exclude", "hidden", "include-binary",
		"no-ignore", "case-sensitive", "no-recursive", "max-depth", "text",
		"xml", "tree", "no-tree", "no-dirs", "no-title", "no-params",
		"no-paths", "output", "output-dir", "input-dir", "clipboard", "pdf",
		"tokens", "model", "no-purge-pycache", "verbose", "debug",
	} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	viper.SetDefault("hidden", false)
	viper.SetDefault("max-depth", 0)
	viper.SetDefault("tree", false)
	viper.SetDefault("model", "")
}

// initConfig reads the optional config file and CONCAT_* environment
// variables; flags always win.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "concat"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("CONCAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		debugf("using config file %s", viper.ConfigFileUsed())
	} else if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
		warnf("error reading config file: %v", err)
	}
}

// buildConfig resolves flags, config file and positional arguments into the
// immutable Config the pipeline runs under.
func buildConfig(args []string) (*Config, error) {
	verboseEnabled = viper.GetBool("verbose")
	debugEnabled = viper.GetBool("debug")

	if viper.GetBool("text") && viper.GetBool("xml") {
		return nil, errors.New("--text and --xml are mutually exclusive")
	}

	cfg := &Config{
		Recursive:        !viper.GetBool("no-recursive"),
		MaxDepth:         viper.GetInt("max-depth"),
		IncludeHidden:    viper.GetBool("hidden"),
		ExcludeNonText:   !viper.GetBool("include-binary"),
		CaseSensitive:    viper.GetBool("case-sensitive"),
		RespectGitignore: !viper.GetBool("no-ignore"),
		PurgeCaches:      !viper.GetBool("no-purge-pycache"),
		ShowDirList:      !viper.GetBool("no-dirs"),
		ShowTitle:        !viper.GetBool("no-title"),
		ShowParams:       !viper.GetBool("no-params"),
		ShowPaths:        !viper.GetBool("no-paths"),
		ShowTree:         viper.GetBool("tree") && !viper.GetBool("no-tree"),
		CountTokens:      viper.GetBool("tokens"),
		TokenModel:       viper.GetString("model"),
		ToClipboard:      viper.GetBool("clipboard"),
		PDFPath:          viper.GetString("pdf"),
	}
	if viper.GetBool("text") {
		cfg.Format = FormatText
	} else {
		cfg.Format = FormatXML
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("--max-depth must be >= 0, got %d", cfg.MaxDepth)
	}

	inputs, fileInputs, extTokens := classifyArgs(args)
	if dir := viper.GetString("input-dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil || !isDir(abs) {
			return nil, fmt.Errorf("input directory not found: %s", dir)
		}
		inputs = append(inputs, abs)
	}
	if len(inputs) == 0 {
		cwd, err := filepath.Abs(".")
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		inputs = []string{cwd}
	}
	cfg.Inputs = inputs
	cfg.FileInputs = fileInputs

	cfg.ExtInclude = extSet(append(extTokens, viper.GetStringSlice("ext")...), cfg.CaseSensitive)
	cfg.ExtExclude = extSet(viper.GetStringSlice("exclude-ext"), cfg.CaseSensitive)
	cfg.IncludeGlobs = viper.GetStringSlice("include")
	for _, p := range viper.GetStringSlice("exclude") {
		cfg.ExcludeGlobs = append(cfg.ExcludeGlobs, rewriteBareExclude(p))
	}

	if err := cfg.resolveOutputPath(viper.GetString("output"), viper.GetString("output-dir")); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
