package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/filltest"
	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/report"
)

// formatDuration renders d as "   0 h 01 m 02 s 345 ms".
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	return fmt.Sprintf("%4d h %02d m %02d s %03d ms", h, m, s, d/time.Millisecond)
}

func totalsLine(verb string, t engine.Totals) string {
	line := fmt.Sprintf("%-5s %s MB in %s", verb, formatMB(t.GrossBytes), formatDuration(t.GrossTime))
	if mbps, ok := t.NetRate(); ok {
		return line + fmt.Sprintf("          %12.3f MB/s", mbps)
	}
	return line + " (measured time too short)"
}

// printSummary writes the end-of-run totals, the verdict and, when needed,
// the arguments to verify the files later.
func printSummary(w io.Writer, st style, cfg filltest.Config, rep *report.Report) {
	p := func(c color, format string, args ...any) {
		fmt.Fprint(w, st.paint(c, fmt.Sprintf(format, args...)))
	}

	if !cfg.VerifyOnly && rep.Metrics.Write.GrossBytes > 0 {
		p(colorWhite, "%s\n", totalsLine("Wrote", rep.Metrics.Write))
	}
	if rep.Metrics.Read.GrossBytes > 0 {
		p(colorWhite, "%s\n", totalsLine("Read", rep.Metrics.Read))
	}
	p(colorYellow, "TEST TIME  =            %s\n", formatDuration(rep.Duration()))

	if rep.VolumeAfter != nil {
		p(colorWhite, "Volume %s: %s free of %s\n", rep.VolumeAfter.Path,
			humanize.Bytes(rep.VolumeAfter.Free), humanize.Bytes(rep.VolumeAfter.Total))
	}
	if rep.FilesRemoved > 0 {
		p(colorWhite, "Removed %d files.\n", rep.FilesRemoved)
	}

	if rep.Faults > 0 {
		p(colorRed, " %s ERRORS found!!!!\n", humanize.Comma(rep.Faults))
	} else {
		p(colorGreen, "NO errors found.\n")
	}

	if args := cfg.VerifyLaterArgs(); args != nil && rep.Metrics.Write.GrossBytes > 0 {
		p(colorCyan, "Use these parameters to test created files later:\n %s\n", strings.Join(args, " "))
	}
}
