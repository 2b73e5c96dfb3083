package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-tennis-metrics/internal/derived"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/session"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// dateCell renders a nullable date, "—" when absent.
func dateCell(d *time.Time) string {
	if d == nil {
		return "—"
	}
	return d.Format(model.DateLayout)
}

func optFloat(v *float64, format string) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf(format, *v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func optPct(v *float64) string {
	if v == nil {
		return "—"
	}
	return pct(*v)
}

// PrintBuildSummary prints a one-line summary of a build.
func PrintBuildSummary(w io.Writer, root string, used, skipped, rows int, d time.Duration) {
	fmt.Fprintf(w, "\nRoot: %s  |  Sessions: %d used, %d skipped  |  Rows: %d  |  Took: %s\n\n",
		root, used, skipped, rows, d.Round(time.Millisecond))
}

// PrintSessionReports prints the outcome of every session folder.
func PrintSessionReports(w io.Writer, reports []session.Report) {
	table := newTable(w)
	table.Header("SESSION", "DATE", "STATUS", "PLAYERS", "REASON")
	for _, r := range reports {
		players := "—"
		if r.Status == session.StatusUsed {
			players = strconv.Itoa(r.Players)
		}
		reason := r.Reason
		if r.Detail != "" {
			reason += ": " + r.Detail
		}
		table.Append(r.Name, dateCell(r.Date), string(r.Status), players, reason)
	}
	table.Render()
}

// PrintDatasetTable prints dataset rows with all nine stroke columns. Rows of
// focus are marked with ">".
func PrintDatasetTable(w io.Writer, rows []model.PlayerSessionRow, focus string) {
	table := newTable(w)
	table.Header(
		" ", "DATE", "PLAYER",
		"SRV_KMH", "SRV_ACC", "SRV_N",
		"FH_KMH", "FH_ACC", "FH_N",
		"BH_KMH", "BH_ACC", "BH_N",
		"UFE",
	)
	for _, r := range rows {
		marker := " "
		if focus != "" && r.Player == focus {
			marker = ">"
		}
		cells := []string{marker, dateCell(r.Date), r.Player}
		for _, stroke := range model.Strokes {
			m := r.Stroke(stroke)
			cells = append(cells,
				fmt.Sprintf("%.1f", m.AvgSpeed),
				pct(m.Accuracy),
				strconv.Itoa(m.Count),
			)
		}
		cells = append(cells, optPct(r.UnforcedErrorRate))
		table.Append(toAny(cells)...)
	}
	table.Render()
}

// PrintTrendTable prints derived metrics for a player's sessions in order.
func PrintTrendTable(w io.Writer, metrics []derived.SessionMetrics) {
	table := newTable(w)
	table.Header("DATE", "AVG_KMH", "AVG_ACC", "NORM_SPEED", "UFE", "COMPOSITE")
	for _, m := range metrics {
		table.Append(
			dateCell(m.Date),
			fmt.Sprintf("%.1f", m.AvgSpeed),
			pct(m.AvgAccuracy),
			fmt.Sprintf("%.3f", m.NormalizedSpeed),
			optPct(m.UnforcedErrorRate),
			optFloat(m.CompositeIndex, "%.4f"),
		)
	}
	table.Render()
}

// PrintKPI prints a player's per-stroke means across sessions.
func PrintKPI(w io.Writer, k derived.KPI) {
	fmt.Fprintf(w, "\n%s  |  Sessions: %d  |  UFE: %s  |  Composite: %s\n\n",
		k.Player, k.Sessions, optPct(k.UnforcedErrorRate), optFloat(k.CompositeIndex, "%.4f"))

	table := newTable(w)
	table.Header("STROKE", "SPEED", "ACCURACY")
	for _, row := range []struct {
		name string
		kpi  derived.StrokeKPI
	}{
		{model.StrokeServe, k.Serve},
		{model.StrokeForehand, k.Forehand},
		{model.StrokeBackhand, k.Backhand},
	} {
		table.Append(row.name, fmt.Sprintf("%.1f km/h", row.kpi.Speed), pct(row.kpi.Accuracy))
	}
	table.Render()
}

// PrintPointsTable prints points won per session with each side's ratio.
func PrintPointsTable(w io.Writer, points []model.SessionPoints) {
	table := newTable(w)
	table.Header("DATE", "HOST", "GUEST", "HOST_RATIO", "GUEST_RATIO")
	for _, p := range points {
		table.Append(
			dateCell(p.Date),
			strconv.Itoa(p.HostPoints),
			strconv.Itoa(p.GuestPoints),
			optFloat(derived.PointsRatio(p, model.RoleHost), "%.2f"),
			optFloat(derived.PointsRatio(p, model.RoleGuest), "%.2f"),
		)
	}
	table.Render()
}

// PrintGameTotalsTable prints aggregated game scores per session with ratios.
func PrintGameTotalsTable(w io.Writer, totals []model.SessionGameTotals) {
	table := newTable(w)
	table.Header("DATE", "HOST_TOTAL", "GUEST_TOTAL", "HOST_RATIO", "GUEST_RATIO")
	for _, g := range totals {
		table.Append(
			dateCell(g.Date),
			fmt.Sprintf("%.0f", g.HostTotal),
			fmt.Sprintf("%.0f", g.GuestTotal),
			optFloat(derived.GameRatio(g, model.RoleHost), "%.2f"),
			optFloat(derived.GameRatio(g, model.RoleGuest), "%.2f"),
		)
	}
	table.Render()
}

// PrintPlayers prints the distinct players with their session counts.
func PrintPlayers(w io.Writer, players []string, sessions map[string]int, host string) {
	table := newTable(w)
	table.Header("PLAYER", "ROLE", "SESSIONS")
	for _, p := range players {
		table.Append(p, derived.RoleOf(p, host).String(), strconv.Itoa(sessions[p]))
	}
	table.Render()
}

// PrintRun prints the stored run header.
func PrintRun(w io.Writer, r storage.Run) {
	fmt.Fprintf(w, "\nRun: %s  |  Built: %s  |  Root: %s  |  Host: %s  |  Sessions: %d used, %d skipped  |  Rows: %d\n\n",
		r.ID[:8], r.BuiltAt.Local().Format("2006-01-02 15:04"), r.Root, r.Host, r.Used, r.Skipped, r.RowCount)
}

// PrintOverview prints the stored per-player overview.
func PrintOverview(w io.Writer, ov []storage.PlayerOverview) {
	table := newTable(w)
	table.Header("PLAYER", "SESSIONS", "FIRST", "LAST", "SRV_KMH", "AVG_ACC", "UFE")
	for _, o := range ov {
		first, last := o.FirstDate, o.LastDate
		if first == "" {
			first, last = "—", "—"
		}
		table.Append(
			o.Player,
			strconv.Itoa(o.Sessions),
			first,
			last,
			fmt.Sprintf("%.1f", o.AvgServeSpeed),
			pct(o.AvgAccuracy),
			optPct(o.AvgUnforced),
		)
	}
	table.Render()
}

// PrintRaw prints the result of an ad-hoc query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	table.Header(toAny(cols)...)
	for _, r := range rows {
		table.Append(toAny(r)...)
	}
	table.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
