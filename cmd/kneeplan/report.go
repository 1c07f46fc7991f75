package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
	"github.com/souradeepAsh/Knee-Preop-Planning/pkg/analysis"
)

// boneClip is the clip summary of one bone for the report
type boneClip struct {
	Name  string
	Stats analysis.ClipResult
}

type reportStyle struct {
	out *termenv.Output
}

func (s reportStyle) title(text string) string {
	return s.out.String(text).Bold().Underline().String()
}

func (s reportStyle) heading(text string) string {
	return s.out.String(text).Bold().String()
}

func (s reportStyle) value(text string) string {
	return s.out.String(text).Foreground(s.out.Color("#76b5c5")).String()
}

func (s reportStyle) warn(text string) string {
	return s.out.String(text).Foreground(s.out.Color("#d2721e")).String()
}

// writeReport prints the result of a planning run
func writeReport(w io.Writer, out *termenv.Output, name string, snap plan.Snapshot, clips []boneClip) {
	st := reportStyle{out: out}

	fmt.Fprintln(w, st.title("Plan: "+name))
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.heading("Parameters"))
	fmt.Fprintf(w, "  %-20s %s\n", "Varus/Valgus", st.value(snap.Controls.VarusValgus))
	fmt.Fprintf(w, "  %-20s %s\n", "Flexion/Extension", st.value(snap.Controls.FlexionExtension))
	fmt.Fprintf(w, "  %-20s %s\n", "Resection depth", st.value(snap.Controls.ResectionDepth))
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.heading("Axes"))
	for _, a := range snap.Axes {
		fmt.Fprintf(w, "  %-20s %s -> %s\n", a.Role, analysis.FormatVector(a.Start), analysis.FormatVector(a.End))
	}
	if len(snap.Axes) == 0 {
		fmt.Fprintf(w, "  %s\n", st.warn("not created"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.heading("Planes"))
	for _, p := range snap.Planes {
		fmt.Fprintf(w, "  %-22s origin %s normal %s\n", p.Role, analysis.FormatVector(p.Origin), analysis.FormatVector(p.Normal))
	}
	if len(snap.Planes) == 0 {
		fmt.Fprintf(w, "  %s\n", st.warn("not created"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.heading("Resection"))
	if m := snap.Measurements; m != nil {
		fmt.Fprintf(w, "  %-20s %s\n", "Medial", st.value(m.MedialText))
		fmt.Fprintf(w, "  %-20s %s\n", "Lateral", st.value(m.LateralText))
	} else {
		fmt.Fprintf(w, "  %s\n", st.warn("no distal resection plane"))
	}

	if len(clips) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.heading("Bones"))
		for _, c := range clips {
			fmt.Fprintf(w, "  %-20s kept %d  removed %d  cut %d\n", c.Name, c.Stats.Kept, c.Stats.Removed, c.Stats.Cut)
		}
	}
}

// writeHistory prints one line per saved plan
func writeHistory(w io.Writer, out *termenv.Output, plans []store.Plan) {
	st := reportStyle{out: out}
	if len(plans) == 0 {
		fmt.Fprintln(w, st.warn("no saved plans"))
		return
	}

	fmt.Fprintln(w, st.heading(fmt.Sprintf("%-36s  %-20s  %-16s  %-8s  %-8s", "ID", "Created", "Name", "Medial", "Lateral")))
	for _, p := range plans {
		fmt.Fprintf(w, "%-36s  %-20s  %-16s  %-8s  %-8s\n",
			p.ID, p.CreatedAt.Local().Format("2006-01-02 15:04:05"), p.Name,
			formatDepth(p.MedialMM), formatDepth(p.LateralMM))
	}
}
