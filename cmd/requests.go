package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizpath/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect recorded calls to the quiz server",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent quiz server calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")
		failed, _ := cmd.Flags().GetBool("failed")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		repo, err := e.requireStore()
		if err != nil {
			return err
		}

		events, err := repo.QueryRequests(commandContext(cmd), store.QueryOpts{
			Limit:      limit,
			SessionID:  session,
			FailedOnly: failed,
		})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No requests found.")
			return nil
		}
		printRequests(out, events)
		return nil
	},
}

func printRequests(out io.Writer, events []store.RequestEvent) {
	fmt.Fprintf(out, "%-5s  %-19s  %-18s  %-6s  %-36s  %-7s  %s\n",
		"ID", "Timestamp", "Op", "Method", "Endpoint", "Ms", "OK")
	fmt.Fprintln(out, strings.Repeat("─", 104))
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-18s  %-6s  %-36s  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Op,
			e.Method,
			truncate(e.Endpoint, 36),
			e.LatencyMs,
			ok,
		)
	}
}

var requestsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View one recorded quiz server call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		repo, err := e.requireStore()
		if err != nil {
			return err
		}

		ev, err := repo.GetRequest(commandContext(cmd), id)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("request %d not found", id)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %d\n", ev.ID)
		fmt.Fprintf(out, "Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Op:        %s\n", ev.Op)
		fmt.Fprintf(out, "Request:   %s %s\n", ev.Method, ev.Endpoint)
		if ev.SessionID != "" {
			fmt.Fprintf(out, "Session:   %s\n", ev.SessionID)
		}
		if ev.Subject != "" {
			fmt.Fprintf(out, "Subject:   %s\n", ev.Subject)
		}
		if ev.StatusCode != 0 {
			fmt.Fprintf(out, "Status:    %d\n", ev.StatusCode)
		}
		fmt.Fprintf(out, "Latency:   %dms\n", ev.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", ev.Success)
		if ev.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", ev.ErrorMessage)
		}
		return nil
	},
}

// opStats aggregates the calls of one gateway operation.
type opStats struct {
	Op       string
	Calls    int
	Failures int
	TotalMs  int64
	MaxMs    int64
}

func (s opStats) avgMs() int64 {
	if s.Calls == 0 {
		return 0
	}
	return s.TotalMs / int64(s.Calls)
}

func aggregateRequests(events []store.RequestEvent) []opStats {
	byOp := make(map[string]*opStats)
	for _, e := range events {
		s, ok := byOp[e.Op]
		if !ok {
			s = &opStats{Op: e.Op}
			byOp[e.Op] = s
		}
		s.Calls++
		if !e.Success {
			s.Failures++
		}
		s.TotalMs += e.LatencyMs
		s.MaxMs = max(s.MaxMs, e.LatencyMs)
	}
	stats := make([]opStats, 0, len(byOp))
	for _, s := range byOp {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Op < stats[j].Op })
	return stats
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts, failures and latency per operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		repo, err := e.requireStore()
		if err != nil {
			return err
		}

		events, err := repo.QueryRequests(commandContext(cmd), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		out := cmd.OutOrStdout()
		stats := aggregateRequests(events)
		if len(stats) == 0 {
			fmt.Fprintln(out, "No requests recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-18s  %6s  %8s  %8s  %8s\n", "Op", "Calls", "Failures", "Avg Ms", "Max Ms")
		fmt.Fprintln(out, strings.Repeat("─", 58))
		var calls, failures int
		for _, s := range stats {
			fmt.Fprintf(out, "%-18s  %6d  %8d  %8d  %8d\n", s.Op, s.Calls, s.Failures, s.avgMs(), s.MaxMs)
			calls += s.Calls
			failures += s.Failures
		}
		fmt.Fprintln(out, strings.Repeat("─", 58))
		fmt.Fprintf(out, "%-18s  %6d  %8d\n", "TOTAL", calls, failures)
		return nil
	},
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	requestsListCmd.Flags().String("session", "", "Only show calls for one quiz session")
	requestsListCmd.Flags().Bool("failed", false, "Only show failed calls")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsViewCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
}
