package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/dataset"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/session"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a persistent session over the dataset. The dataset is built once and
reused until the cache TTL expires or 'reload' is typed. Type 'help' for
available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// shellState holds the snapshot cache and the currently selected player.
type shellState struct {
	cache  *dataset.Cache
	player string
}

func (s *shellState) snapshot() (dataset.Result, error) {
	return s.cache.Get(cfg.DataRoot, buildDataset)
}

func runShell(_ *cobra.Command, _ []string) error {
	st := &shellState{cache: dataset.NewCache(cfg.CacheTTL)}

	res, err := st.snapshot()
	if err != nil {
		return err
	}
	if players := res.Dataset.Players(); len(players) > 0 {
		st.player = players[0]
	}

	cGreeting.Println("tennismetrics shell")
	cMuted.Printf("%d sessions, %d players loaded from %s\n", res.Used(), len(res.Dataset.Players()), res.Root)
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("tennismetrics")
		if st.player != "" {
			cMuted.Printf(" [%s]", st.player)
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			shellPlayers(st)
		case "use":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: use <player name>")
				continue
			}
			shellUse(st, strings.Join(args, " "))
		case "trend":
			n := 0
			if len(args) > 0 {
				if n, err = strconv.Atoi(args[0]); err != nil || n < 0 {
					cError.Fprintln(os.Stderr, "usage: trend [last-n]")
					continue
				}
			}
			shellTrend(st, n)
		case "show":
			if len(args) == 0 || session.ParseDate(args[0]) == nil {
				cError.Fprintln(os.Stderr, "usage: show <YYYY-MM-DD>")
				continue
			}
			shellShow(st, args[0])
		case "sessions":
			shellSessions(st)
		case "points":
			shellPoints(st)
		case "reload":
			st.cache.Invalidate(cfg.DataRoot)
			res, err := st.snapshot()
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			cMuted.Printf("reloaded: %d sessions, %d rows\n", res.Used(), res.Dataset.Len())
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "list players in the dataset"},
		{"use <player name>", "select the player for 'trend'"},
		{"trend [last-n]", "per-session trend and KPIs for the selected player"},
		{"show <YYYY-MM-DD>", "rows of one session"},
		{"sessions", "session folders and whether they were used"},
		{"points", "points won and game totals per session"},
		{"reload", "rebuild the dataset from disk"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellPlayers(st *shellState) {
	res, err := st.snapshot()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	players := res.Dataset.Players()
	if len(players) == 0 {
		cMuted.Println("No players in the dataset.")
		return
	}
	for _, p := range players {
		marker := "  "
		if p == st.player {
			marker = "> "
		}
		fmt.Fprintf(os.Stdout, "%s%-28s %d sessions\n", marker, p, len(res.Dataset.ForPlayer(p)))
	}
}

func shellUse(st *shellState, name string) {
	res, err := st.snapshot()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	for _, p := range res.Dataset.Players() {
		if strings.EqualFold(p, name) {
			st.player = p
			return
		}
	}
	cWarn.Fprintf(os.Stderr, "no player named %q\n", name)
}

func shellTrend(st *shellState, last int) {
	if st.player == "" {
		cWarn.Fprintln(os.Stderr, "no player selected — use 'use <player name>'")
		return
	}
	res, err := st.snapshot()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	rows := res.Dataset.ForPlayer(st.player)
	if len(rows) == 0 {
		cMuted.Printf("No sessions for %s.\n", st.player)
		return
	}
	printTrend(st.player, dataset.Last(rows, last))
}

func shellShow(st *shellState, date string) {
	res, err := st.snapshot()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	rows := res.Dataset.ForDate(date)
	if len(rows) == 0 {
		cMuted.Printf("No data for session %s.\n", date)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- Session %s ---\n", date)
	report.PrintDatasetTable(os.Stdout, rows, st.player)
}

func shellSessions(st *shellState) {
	res, err := st.snapshot()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(res.Reports) == 0 {
		cMuted.Println("No session folders found.")
		return
	}
	report.PrintSessionReports(os.Stdout, res.Reports)
}

func shellPoints(st *shellState) {
	res, err := st.snapshot()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(res.PointsWon) == 0 {
		cMuted.Println("No points tables found.")
		return
	}
	cHeader.Fprintln(os.Stdout, "--- Points won ---")
	report.PrintPointsTable(os.Stdout, res.PointsWon)
	if len(res.GameTotals) > 0 {
		cHeader.Fprintln(os.Stdout, "--- Aggregated game points ---")
		report.PrintGameTotalsTable(os.Stdout, res.GameTotals)
	}
}
