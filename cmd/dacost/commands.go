package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eth2030/dacost/fri"
	"github.com/eth2030/dacost/log"
	"github.com/eth2030/dacost/params"
	"github.com/eth2030/dacost/report"
	"github.com/eth2030/dacost/scheme"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		out         string
		families    []string
		plots       bool
		metricsFile string
		unit        string
		sweep       = report.DefaultSweep()
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sweep scheme families over data sizes and write CSV series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadParams()
			if err != nil {
				return err
			}
			fams, err := report.SelectFamilies(p, families)
			if err != nil {
				return err
			}
			sweep.Unit = report.Unit(strings.ToLower(unit))

			series, err := report.Run(cmd.Context(), fams, sweep)
			if err != nil {
				return err
			}
			if err := report.WriteCSV(out, series); err != nil {
				return err
			}
			logger := log.Default().Module("cli")
			logger.Info("wrote series", "dir", out, "files", len(series))
			if plots {
				if err := report.WritePlots(out, series); err != nil {
					return err
				}
				logger.Info("wrote plots", "dir", out)
			}
			if metricsFile != "" {
				if err := report.WriteTextfile(metricsFile, series); err != nil {
					return err
				}
				logger.Info("wrote metrics textfile", "path", metricsFile)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&out, "out", "data", "output directory for CSV files and plots")
	f.StringSliceVar(&families, "families", nil, "scheme families to evaluate (default: rs,tensor,hash,homhash,fri)")
	f.BoolVar(&plots, "plots", false, "also draw one PNG chart per metric")
	f.StringVar(&metricsFile, "metrics-file", "", "also write a Prometheus textfile to this path")
	f.StringVar(&unit, "unit", string(report.UnitMB), "data size unit (mb, blob)")
	f.IntVar(&sweep.Start, "start", sweep.Start, "first data size in units")
	f.IntVar(&sweep.Stop, "stop", sweep.Stop, "data size bound in units, exclusive")
	f.IntVar(&sweep.Step, "step", sweep.Step, "data size step in units")
	return cmd
}

// schemeSummary is the printable view of one scheme instance. All sizes are
// in bits.
type schemeSummary struct {
	Family          string      `yaml:"family"`
	DataSize        int         `yaml:"data_size"`
	ComSize         int         `yaml:"com_size"`
	OpeningOverhead int         `yaml:"opening_overhead"`
	CodewordLen     int         `yaml:"codeword_len"`
	Reception       int         `yaml:"reception"`
	Samples         int         `yaml:"samples"`
	CommPerQuery    float64     `yaml:"comm_per_query"`
	TotalComm       float64     `yaml:"total_comm"`
	EncodingSize    int         `yaml:"encoding_size"`
	FRI             *fri.Config `yaml:"fri,omitempty"`
}

func summarize(family string, datasize int, s scheme.Scheme) schemeSummary {
	return schemeSummary{
		Family:          family,
		DataSize:        datasize,
		ComSize:         s.ComSize(),
		OpeningOverhead: s.OpeningOverhead(),
		CodewordLen:     s.EncodingLength(),
		Reception:       s.Reception(),
		Samples:         s.Samples(),
		CommPerQuery:    s.CommPerQuery(),
		TotalComm:       s.TotalComm(),
		EncodingSize:    s.EncodingSize(),
	}
}

func newSchemeCmd(a *app) *cobra.Command {
	var (
		size     int
		unit     string
		asYAML   bool
		invRate  int
		fieldBit int
	)
	cmd := &cobra.Command{
		Use:   "scheme <family>",
		Short: "Print the parameters and costs of one scheme instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadParams()
			if err != nil {
				return err
			}
			unitBits, err := report.Unit(strings.ToLower(unit)).Bits()
			if err != nil {
				return err
			}
			datasize := size * unitBits
			name := strings.ToLower(args[0])

			var sum schemeSummary
			if name == report.FamilyFRI {
				s, cfg, err := fri.NewScheme(p, datasize, invRate, fieldBit)
				if err != nil {
					return err
				}
				sum = summarize(name, datasize, s)
				sum.FRI = &cfg
			} else {
				fams, err := report.SelectFamilies(p, []string{name})
				if err != nil {
					return err
				}
				s, err := fams[0].Build(datasize)
				if err != nil {
					return err
				}
				sum = summarize(name, datasize, s)
			}

			if asYAML {
				return writeYAML(cmd.OutOrStdout(), sum)
			}
			return writeSummary(cmd.OutOrStdout(), sum)
		},
	}
	f := cmd.Flags()
	f.IntVar(&size, "size", 1, "data size in units")
	f.StringVar(&unit, "unit", string(report.UnitMB), "data size unit (mb, blob)")
	f.BoolVar(&asYAML, "yaml", false, "print as YAML")
	f.IntVar(&invRate, "fri-inv-rate", fri.DefaultInvRate, "inverse code rate for fri")
	f.IntVar(&fieldBit, "fri-field-size", fri.DefaultFieldSize, "field element size in bits for fri")
	return cmd
}

func writeSummary(w io.Writer, sum schemeSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "family\t%s\n", sum.Family)
	fmt.Fprintf(tw, "data size\t%d bits\n", sum.DataSize)
	fmt.Fprintf(tw, "commitment\t%d bits\n", sum.ComSize)
	fmt.Fprintf(tw, "opening overhead\t%d bits\n", sum.OpeningOverhead)
	fmt.Fprintf(tw, "codeword length\t%d\n", sum.CodewordLen)
	fmt.Fprintf(tw, "reception\t%d\n", sum.Reception)
	fmt.Fprintf(tw, "samples\t%d\n", sum.Samples)
	fmt.Fprintf(tw, "comm per query\t%g bits\n", sum.CommPerQuery)
	fmt.Fprintf(tw, "total comm\t%g bits\n", sum.TotalComm)
	fmt.Fprintf(tw, "encoding size\t%d bits\n", sum.EncodingSize)
	if c := sum.FRI; c != nil {
		fmt.Fprintf(tw, "fri batch size\t%d\n", c.BatchSize)
		fmt.Fprintf(tw, "fri fan-in\t%d\n", c.FanIn)
		fmt.Fprintf(tw, "fri base dimension\t%d\n", c.BaseDimension)
		fmt.Fprintf(tw, "fri rounds\t%d\n", c.Rounds)
		fmt.Fprintf(tw, "fri repetitions\t%d\n", c.Repetitions)
		fmt.Fprintf(tw, "fri domain size\t%d\n", c.DomainSize)
	}
	return tw.Flush()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func newParamsCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the resolved security and size parameters as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadParams()
			if err != nil {
				return err
			}
			if out == "" {
				return writeYAML(cmd.OutOrStdout(), p)
			}
			return writeParamsFile(out, p)
		},
	}
	cmd.Flags().StringVar(&out, "write", "", "write the YAML to this file instead of stdout")
	return cmd
}

func writeParamsFile(path string, p params.Params) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), raw, 0o644); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	return nil
}
