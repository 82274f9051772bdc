package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// CSVName is the file WriteCSV uses for a series.
func CSVName(s Series) string {
	return s.Family + "_" + s.Metric.Name + ".csv"
}

// WriteCSV writes every series to dir/<family>_<metric>.csv as headerless
// "size,value" rows. dir is created if it does not exist.
func WriteCSV(dir string, series []Series) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	for _, s := range series {
		if err := writeSeriesCSV(filepath.Join(dir, CSVName(s)), s); err != nil {
			return err
		}
	}
	return nil
}

func writeSeriesCSV(path string, s Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	w := csv.NewWriter(f)
	for _, pt := range s.Points {
		if err := w.Write([]string{strconv.Itoa(pt.Size), strconv.FormatFloat(pt.Value, 'g', -1, 64)}); err != nil {
			f.Close()
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return f.Close()
}

// WritePlots draws one line chart per metric into dir/<metric>.png, with one
// line per family. dir is created if it does not exist.
func WritePlots(dir string, series []Series) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	for _, m := range Metrics {
		var lines []any
		var unit Unit
		for _, s := range series {
			if s.Metric.Name != m.Name {
				continue
			}
			unit = s.Unit
			xys := make(plotter.XYs, len(s.Points))
			for i, pt := range s.Points {
				xys[i].X = float64(pt.Size)
				xys[i].Y = pt.Value
			}
			lines = append(lines, s.Family, xys)
		}
		if len(lines) == 0 {
			continue
		}
		if unit == "" {
			unit = UnitMB
		}

		p := plot.New()
		p.Title.Text = m.Help
		p.X.Label.Text = "data size (" + string(unit) + ")"
		p.Y.Label.Text = m.Unit
		p.Legend.Top = true
		if err := plotutil.AddLinePoints(p, lines...); err != nil {
			return fmt.Errorf("report: plot %s: %w", m.Name, err)
		}
		if err := p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(dir, m.Name+".png")); err != nil {
			return fmt.Errorf("report: save plot %s: %w", m.Name, err)
		}
	}
	return nil
}

// WriteTextfile writes every series as Prometheus gauges in the text
// exposition format, for the node exporter textfile collector. Gauges are
// named dacost_scheme_<metric>_<unit> and labelled by scheme and size.
func WriteTextfile(path string, series []Series) error {
	reg := prometheus.NewRegistry()
	gauges := make(map[string]*prometheus.GaugeVec, len(Metrics))
	for _, m := range Metrics {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dacost",
			Subsystem: "scheme",
			Name:      m.Name + "_" + m.Unit,
			Help:      m.Help,
		}, []string{"scheme", "size"})
		if err := reg.Register(g); err != nil {
			return fmt.Errorf("report: register %s: %w", m.Name, err)
		}
		gauges[m.Name] = g
	}
	for _, s := range series {
		g, ok := gauges[s.Metric.Name]
		if !ok {
			continue
		}
		for _, pt := range s.Points {
			g.WithLabelValues(s.Family, strconv.Itoa(pt.Size)+string(s.Unit)).Set(pt.Value)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create output dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("report: write textfile: %w", err)
	}
	return nil
}
