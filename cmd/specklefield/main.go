// Command specklefield computes the displacement field between a reference
// and an object speckle recording.
//
// Usage:
//
//	specklefield -ref FILE [-ref FILE ...] -obj FILE [-obj FILE ...] [flags]
//
// Each -ref and -obj flag adds one frame to the respective stack. Frames are
// decoded from TIFF (16-bit gray is kept at full depth) or any format the
// imaging package reads, converted to intensities and reduced with -method.
//
// Examples:
//
//	specklefield -ref ref0.tif -ref ref1.tif -obj obj0.tif -obj obj1.tif
//	specklefield -size 32 -refine quadratic -ref a.png -obj b.png
//	specklefield -rows 100,150,200 -cols 80,120 -ref a.tif -obj b.tif
//	specklefield -contrast k.png -ref a.tif -obj b0.tif -obj b1.tif
//	specklefield -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-dic/dic/field"
	"github.com/cwbudde/algo-dic/dic/subpixel"
	"github.com/cwbudde/algo-dic/dic/track"
	"github.com/cwbudde/algo-dic/frame"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// pathList is a repeatable string flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("specklefield", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var refs, objs pathList
	fs.Var(&refs, "ref", "reference frame `file` (repeatable)")
	fs.Var(&objs, "obj", "object frame `file` (repeatable)")
	size := fs.Int("size", field.DefaultWindowSize, "interrogation window size (even, >= 4)")
	workers := fs.Int("workers", 0, "worker count (0 = one per CPU)")
	method := fs.String("method", frame.MethodMean, "frame aggregation: mean or median")
	refine := fs.String("refine", subpixel.NameChebyshev, "sub-pixel strategy")
	tol := fs.Float64("tol", track.DefaultTolerance, "sub-pixel convergence tolerance in pixels")
	maxIter := fs.Int("maxiter", track.DefaultMaxIterations, "sub-pixel iteration budget")
	strict := fs.Bool("strict", false, "zero windows whose sub-pixel refinement did not converge")
	rows := fs.String("rows", "", "explicit row centers, comma separated")
	cols := fs.String("cols", "", "explicit column centers, comma separated")
	contrastOut := fs.String("contrast", "", "write the temporal contrast map to this image `file`")
	contrastWidth := fs.Int("contrast-width", 0, "resize the contrast image to this width (0 = full size)")
	list := fs.Bool("list", false, "list aggregation methods and sub-pixel strategies")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: specklefield -ref FILE [-ref FILE ...] -obj FILE [-obj FILE ...] [flags]\n\n")
		fmt.Fprintf(stderr, "Computes the displacement field between two speckle recordings.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *list {
		printList(stdout)
		return 0
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if len(refs) == 0 || len(objs) == 0 {
		fmt.Fprintf(stderr, "error: at least one -ref and one -obj frame are required\n")
		fs.Usage()
		return 2
	}

	rowCenters, err := parseInts(*rows)
	if err != nil {
		fmt.Fprintf(stderr, "error: -rows: %v\n", err)
		return 2
	}
	colCenters, err := parseInts(*cols)
	if err != nil {
		fmt.Fprintf(stderr, "error: -cols: %v\n", err)
		return 2
	}
	if (len(rowCenters) == 0) != (len(colCenters) == 0) {
		fmt.Fprintf(stderr, "error: -rows and -cols must be given together\n")
		return 2
	}

	proc, err := field.NewProcessor(
		field.WithWindowSize(*size),
		field.WithWorkers(*workers),
		field.WithAggregation(*method),
		field.WithRefiner(*refine),
		field.WithTolerance(*tol),
		field.WithMaxIterations(*maxIter),
		field.WithStrictConvergence(*strict),
		field.WithCenters(rowCenters, colCenters),
		field.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	refStack, err := loadStack(refs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	objStack, err := loadStack(objs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	logger.Debug("specklefield: frames loaded", "ref", len(refStack), "obj", len(objStack))

	f, err := proc.Process(refStack, objStack)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if err := printField(stdout, f); err != nil {
		fmt.Fprintf(stderr, "error: failed to write output: %v\n", err)
		return 1
	}

	if *contrastOut != "" {
		if err := saveContrast(*contrastOut, f.Contrast, *contrastWidth); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		logger.Info("specklefield: contrast map written", "path", *contrastOut)
	}

	if n := f.Failed(); n > 0 {
		logger.Warn("specklefield: windows flagged", "failed", n, "total", f.Len())
	}
	return 0
}

func printList(w io.Writer) {
	fmt.Fprintln(w, "aggregation:")
	for _, m := range frame.Methods() {
		fmt.Fprintf(w, "  %s\n", m)
	}
	fmt.Fprintln(w, "refine:")
	for _, n := range subpixel.Names() {
		fmt.Fprintf(w, "  %s\n", n)
	}
}

// parseInts parses a comma separated list of integers. An empty string
// yields nil.
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid center %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func printField(w io.Writer, f *field.Field) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Row\tCol\tdy [px]\tdx [px]\tCorrelation\tStatus\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "---\t---\t-------\t-------\t-----------\t------\n"); err != nil {
		return err
	}
	for i, row := range f.Rows {
		for j, col := range f.Cols {
			k := f.Index(i, j)
			d := f.Displacement[k]
			if _, err := fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.4f\t%.4f\t%s\n",
				row, col, real(d), imag(d), f.Correlation[k], f.Status[k]); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}
