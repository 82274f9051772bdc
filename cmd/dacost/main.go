// Command dacost computes the commitment size and communication costs of
// erasure-code-based data availability commitments.
//
// Usage:
//
//	dacost report  [--out ./data] [--families rs,fri] [--plots] [--metrics-file f]
//	dacost scheme  <family> [--size 1] [--unit mb] [--yaml]
//	dacost params
//	dacost version
//
// Global flags:
//
//	--config                YAML config file with params overrides
//	--log-level             debug, info, warn, error (default: info)
//	--log-format            text or json (default: text)
//	--sampling-soundness    soundness bits for reconstruction by sampling (default: 40)
//	--statistical-security  FRI statistical security bits (default: 40)
//	--ro-queries            log2 of random oracle queries (default: 60)
//	--grinding              proof-of-work bits (default: 20)
//	--hash                  hash function (default: sha256)
//
// Every params key can also be set through a DACOST_<KEY> environment
// variable, e.g. DACOST_SAMPLING_SOUNDNESS=80.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eth2030/dacost/log"
	"github.com/eth2030/dacost/params"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code. Accepts CLI
// arguments (without the program name) so it can be tested in isolation.
func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// app carries the configuration shared by all subcommands.
type app struct {
	v          *viper.Viper
	configFile string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "dacost",
		Short:         "Cost model for erasure code commitments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := log.ParseLevel(a.logLevel)
			switch strings.ToLower(a.logFormat) {
			case "json":
				log.SetDefault(log.NewWithHandler(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			case "text", "":
				log.SetDefault(log.NewText(level, cmd.ErrOrStderr()))
			default:
				return fmt.Errorf("unknown log format %q (want text or json)", a.logFormat)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file with params overrides")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format (text, json)")
	pf.Int("sampling-soundness", params.DefaultSamplingSoundness, "soundness bits for reconstruction by sampling")
	pf.Int("statistical-security", params.DefaultStatisticalSecurity, "FRI statistical security bits")
	pf.Int("ro-queries", params.DefaultROQueries, "log2 of random oracle queries")
	pf.Int("grinding", params.DefaultGrinding, "proof-of-work bits")
	pf.String("hash", params.DefaultParams().Hash, "hash function")

	for _, name := range []string{"sampling-soundness", "statistical-security", "ro-queries", "grinding", "hash"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), pf.Lookup(name))
	}

	root.AddCommand(
		newReportCmd(a),
		newSchemeCmd(a),
		newParamsCmd(a),
		newVersionCmd(),
	)
	return root
}

// loadParams resolves Params from defaults, the config file, DACOST_*
// environment variables and flags, in increasing precedence.
func (a *app) loadParams() (params.Params, error) {
	def := params.DefaultParams()
	a.v.SetDefault("sampling_soundness", def.SamplingSoundness)
	a.v.SetDefault("statistical_security", def.StatisticalSecurity)
	a.v.SetDefault("ro_queries", def.ROQueries)
	a.v.SetDefault("grinding", def.Grinding)
	a.v.SetDefault("hash", def.Hash)
	// Zero lets Normalize derive the digest size from the hash name.
	a.v.SetDefault("hash_bits", 0)
	a.v.SetDefault("bls_field_element_bits", def.BLSFieldElementBits)
	a.v.SetDefault("bls_group_element_bits", def.BLSGroupElementBits)
	a.v.SetDefault("pedersen_field_element_bits", def.PedersenFieldElementBits)
	a.v.SetDefault("pedersen_group_element_bits", def.PedersenGroupElementBits)
	a.v.SetDefault("kzg_commitment_bits", def.KZGCommitmentBits)
	a.v.SetDefault("kzg_proof_bits", def.KZGProofBits)

	a.v.SetEnvPrefix("dacost")
	a.v.AutomaticEnv()

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return params.Params{}, fmt.Errorf("read config %s: %w", a.configFile, err)
		}
	}

	var p params.Params
	if err := a.v.Unmarshal(&p); err != nil {
		return params.Params{}, fmt.Errorf("decode params: %w", err)
	}
	p, err := p.Normalize()
	if err != nil {
		return params.Params{}, err
	}
	if err := p.Validate(); err != nil {
		return params.Params{}, err
	}
	return p, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dacost %s (commit %s)\n", version, commit)
		},
	}
}
