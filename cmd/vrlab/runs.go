package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vrlab/internal/analysis"
	"github.com/san-kum/vrlab/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tTICKS\tDT\tPRESET")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Dt,
			run.Preset,
		)
	}

	return w.Flush()
}

// defaultColumn picks what to plot when --column is not given.
func defaultColumn(trace *storage.Trace) string {
	for _, name := range []string{"pendulum_0", "angle", "player_z"} {
		if trace.Column(name) != nil {
			return name
		}
	}
	if len(trace.Columns) > 0 {
		return trace.Columns[0]
	}
	return ""
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	name := column
	if name == "" {
		name = defaultColumn(trace)
	}
	data := trace.Column(name)
	if data == nil {
		return fmt.Errorf("unknown column %q (available: %s)", name, strings.Join(trace.Columns, ", "))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", trace.Len())

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(name),
	)
	fmt.Println(graph)
	if period := analysis.DominantPeriod(data, meta.Dt); period > 0 {
		fmt.Printf("dominant period: %.3fs\n", period)
	}

	if x, z := trace.Column("player_x"), trace.Column("player_z"); column == "" && x != nil && z != nil {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany([][]float64{x, z},
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption("player x / z"),
		))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		return storage.WriteCSV(os.Stdout, trace)
	case "json":
		return storage.WriteJSON(os.Stdout, *meta, trace)
	}
	return fmt.Errorf("unknown format: %s", format)
}
