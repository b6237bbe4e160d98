package main

import (
	"fmt"
	"io"
	"logistics-sim/internal/domain"
	"text/tabwriter"
	"time"
)

// printReport writes the scenario inputs, phase timings and per-truck
// counters as aligned tables.
func printReport(w io.Writer, r *domain.RunReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p := r.Params
	fmt.Fprintln(tw, "PROBLEM VARIABLES\t")
	fmt.Fprintf(tw, "Graph dimensions:\t%dx%d\n", p.Width, p.Height)
	fmt.Fprintf(tw, "Graph noise:\t%g\n", p.Noise)
	fmt.Fprintf(tw, "Graph nodes / edges:\t%d / %d\n", r.GraphNodes, r.GraphEdges)
	fmt.Fprintf(tw, "Number of packages:\t%d\n", r.Packages)
	fmt.Fprintf(tw, "Number of trucks:\t%d\n", p.Trucks)
	fmt.Fprintf(tw, "Number of garages:\t%d\n", p.Garages)
	fmt.Fprintf(tw, "Seed:\t%d\n", p.Seed)
	fmt.Fprintln(tw, "\t")

	t := r.Timings
	fmt.Fprintln(tw, "TIME TO COMPLETE\t")
	fmt.Fprintf(tw, "Total time:\t%s\n", seconds(t.Total))
	fmt.Fprintf(tw, "Graph creation:\t%s\n", seconds(t.Graph))
	fmt.Fprintf(tw, "Making packages:\t%s\n", seconds(t.Packages))
	fmt.Fprintf(tw, "Making garages:\t%s\n", seconds(t.Garages))
	fmt.Fprintf(tw, "Making trucks:\t%s\n", seconds(t.Trucks))
	fmt.Fprintf(tw, "Dispatching:\t%s\n", seconds(t.Dispatch))
	fmt.Fprintf(tw, "Searching:\t%s\n", seconds(t.Searching))
	fmt.Fprintln(tw, "\t")

	fmt.Fprintln(tw, "OUTCOME\t")
	fmt.Fprintf(tw, "Result:\t%s (%s termination)\n", r.Outcome, r.Termination)
	fmt.Fprintf(tw, "Ticks:\t%d\n", r.Ticks)
	fmt.Fprintf(tw, "Delivered:\t%d of %d\n", r.Delivered, r.Packages)
	fmt.Fprintf(tw, "Searches:\t%d\n", r.SearchCalls)
	fmt.Fprintln(tw, "\t")

	if err := tw.Flush(); err != nil {
		return err
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "truck\tgarage\tdistance\tdelivered\t")
	for _, s := range r.Trucks {
		fmt.Fprintf(tw, "T%d\tG%d\t%d\t%d\t\n", s.TruckID, s.GarageID, s.DistanceTraveled, s.Delivered)
	}
	return tw.Flush()
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
