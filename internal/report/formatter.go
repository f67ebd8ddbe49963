package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// SizeWidth is the width of the size column in table output.
	SizeWidth = 10
)

// Format controls how sizes are rendered.
type Format struct {
	// Human renders sizes with SI units (e.g. 2.1 GB).
	Human bool
	// Colors highlights sizes by magnitude.
	Colors bool
}

// FormatSize renders a byte count.
func FormatSize(size int64, human bool) string {
	if !human || size < 0 {
		return strconv.FormatInt(size, 10)
	}

	return humanize.Bytes(uint64(size))
}

// palette holds the styles for one output stream.
type palette struct {
	giga, mega, kilo, bytes, path, heading lipgloss.Style
}

func newPalette(w io.Writer, colors bool) palette {
	r := lipgloss.NewRenderer(w)
	if colors {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return palette{
		giga:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		mega:    r.NewStyle().Foreground(lipgloss.Color("1")),
		kilo:    r.NewStyle().Foreground(lipgloss.Color("5")),
		bytes:   r.NewStyle().Foreground(lipgloss.Color("2")),
		path:    r.NewStyle().Foreground(lipgloss.Color("6")),
		heading: r.NewStyle().Underline(true),
	}
}

func (p palette) size(size int64, text string) string {
	switch {
	case size > 1_000_000_000:
		return p.giga.Render(text)
	case size > 1_000_000:
		return p.mega.Render(text)
	case size > 1_000:
		return p.kilo.Render(text)
	default:
		return p.bytes.Render(text)
	}
}

// PrintJSON outputs the summary in JSON format.
func PrintJSON(summary *Summary, writer io.Writer) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPlain outputs one "size<TAB>path" line per entry, without decoration.
func PrintPlain(summary *Summary, writer io.Writer, format Format) error {
	for _, e := range summary.Entries {
		if _, err := fmt.Fprintf(writer, "%s\t%s\n", FormatSize(e.Size, format.Human), e.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the summary in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(summary *Summary, writer io.Writer, format Format) error {
	p := newPalette(writer, format.Colors)
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(w, "%s files size:\t%s\n", summary.Root, p.size(summary.RootSize, FormatSize(summary.RootSize, format.Human)))
	fmt.Fprintf(w, "%s total size:\t%s\n", summary.Root, p.size(summary.Total, FormatSize(summary.Total, format.Human)))

	if err := w.Flush(); err != nil {
		return err
	}

	if summary.Filtered {
		fmt.Fprintln(writer, "Entries that consume at least 1% of space in this path")
	}

	fmt.Fprintln(writer, "---------------------------------------------------------")

	// Pad before styling so escape sequences don't break alignment
	for _, e := range summary.Entries {
		size := fmt.Sprintf("%*s", SizeWidth, FormatSize(e.Size, format.Human))
		fmt.Fprintf(writer, "%s  %s\n", p.size(e.Size, size), p.path.Render(e.Path))
	}

	fmt.Fprintln(w, "\n"+p.heading.Render("Stats:")+"\t")
	fmt.Fprintf(w, "Directories:\t%d\n", summary.Directories)

	if summary.Failed > 0 {
		fmt.Fprintf(w, "Unreadable directories:\t%d\n", summary.Failed)
	}

	if summary.StatFailures > 0 {
		fmt.Fprintf(w, "Unreadable entries:\t%d\n", summary.StatFailures)
	}

	if summary.Blacklisted > 0 {
		fmt.Fprintf(w, "Blacklisted directories:\t%d\n", summary.Blacklisted)
	}

	if v := summary.Volume; v != nil {
		fmt.Fprintf(w, "Filesystem:\t%s of %s used (%.1f%%) %s\n",
			humanize.Bytes(v.Used), humanize.Bytes(v.Total), v.UsedPercent, v.Fstype)
	}

	if summary.Partial {
		fmt.Fprintf(w, "Elapsed:\t%v (interrupted, partial result)\n", summary.Elapsed)
	} else {
		fmt.Fprintf(w, "Elapsed:\t%v\n", summary.Elapsed)
	}

	return w.Flush()
}
