package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/filltest/engine"
)

// console prints run progress the way the tool always has: one line per
// file, one line per fault.
type console struct {
	w       io.Writer
	style   style
	verbose bool
	now     func() time.Time
}

func newConsole(w io.Writer, st style, verbose bool) *console {
	return &console{w: w, style: st, verbose: verbose, now: time.Now}
}

func (c *console) printf(col color, format string, args ...any) {
	fmt.Fprint(c.w, c.style.paint(col, fmt.Sprintf(format, args...)))
}

func dirLabel(dir string) string {
	if dir == "" {
		return "current directory"
	}
	return dir
}

func (c *console) OnPhaseStart(ev engine.PhaseStart) {
	if ev.Phase == engine.PhaseTopOff {
		note := ""
		if c.verbose {
			note = " (not included in total speed stats)"
		}
		verb := "Filling up disk"
		if ev.Op == engine.OpVerify {
			verb = "Verifying top-off files"
		}
		c.printf(colorCyan, "%s with block = %s B%s\n", verb, humanize.Comma(int64(ev.BlockSize)), note)
		return
	}

	if c.verbose {
		label := "WRITING"
		if ev.Op == engine.OpVerify {
			label = "READING"
		}
		c.printf(colorYellow, "START %-8s %s\n", label, c.now().Format(time.ANSIC))
	}
	if ev.Op == engine.OpWrite {
		c.printf(colorWhite, "Writing files random-XXXXXXXX with seed %d to %s\n", ev.Seed, dirLabel(ev.Dir))
	} else {
		c.printf(colorWhite, "Verifying files random-XXXXXXXX with seed %d from %s\n", ev.Seed, dirLabel(ev.Dir))
	}
}

func formatRate(bytes int64, elapsed time.Duration) string {
	mbps, ok := engine.Rate(bytes, elapsed)
	if !ok {
		return "(measured time too short)"
	}
	return fmt.Sprintf("with %12.3f MB/s", mbps)
}

func formatMB(bytes int64) string {
	return humanize.FormatFloat("#,###.###", float64(bytes)/engine.BytesPerMB)
}

func (c *console) OnFileWritten(s engine.FileStat) {
	if s.Slot.Phase == engine.PhaseTopOff {
		c.printf(colorWhite, "Wrote %9.3f kB data to %s %s\n", float64(s.Bytes)/1000, s.Slot.Name, formatRate(s.Bytes, s.Elapsed))
		return
	}
	c.printf(colorWhite, "Wrote %s MB data to %s %s\n", formatMB(s.Bytes), s.Slot.Name, formatRate(s.Bytes, s.Elapsed))
}

func (c *console) OnFileVerified(s engine.FileStat) {
	col := colorWhite
	if s.Faults > 0 {
		col = colorRed
	}
	if s.Slot.Phase == engine.PhaseTopOff {
		c.printf(col, "Read  %9.3f kB data from %s %s\n", float64(s.Bytes)/1000, s.Slot.Name, formatRate(s.Bytes, s.Elapsed))
		return
	}
	c.printf(col, "Read  %s MB data from %s %s\n", formatMB(s.Bytes), s.Slot.Name, formatRate(s.Bytes, s.Elapsed))
}

func (c *console) OnFault(f engine.Fault) {
	c.printf(colorRed, "ERROR! %s Position: %s BLOCK:%6d OFFSET:%7d\n",
		f.Name, humanize.Comma(f.Position), f.Block, f.Offset)
}

var statusVerbs = map[string]string{
	"open":   "opening next file",
	"unlink": "unlinking opened file",
	"write":  "writing next file",
	"read":   "reading file",
	"seek":   "seeking in file",
}

func (c *console) OnIOStatus(st engine.IOStatus) {
	if errors.Is(st.Err, engine.ErrRegistryExhausted) {
		c.printf(colorWhite, "Finished all opened file handles.\n")
		return
	}
	verb, ok := statusVerbs[st.Op]
	if !ok {
		verb = st.Op
	}
	msg := "short read"
	if st.Err != nil {
		msg = st.Err.Error()
	}
	c.printf(colorYellow, "STATUS %s %s: %s\n", verb, st.Name, msg)
}

func (c *console) OnPhaseSummary(sum engine.PhaseSummary) {
	if !c.verbose {
		return
	}
	if sum.Op == engine.OpWrite && sum.Reason == engine.StopVolumeFull {
		c.printf(colorWhite, "No space for new file (%s phase).\n", sum.Phase)
	}
	if sum.Phase == engine.PhaseLarge {
		label := "WRITING"
		if sum.Op == engine.OpVerify {
			label = "READING"
		}
		c.printf(colorYellow, "END   %-8s %s\n", label, c.now().Format(time.ANSIC))
	}
}
