package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	auditLimit int
	auditJSON  bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent audit events",
	Long: `Lists the most recent answered questions from the SQLite audit mirror.
Set AUDIT_DB (or paths.audit_db) to enable the mirror.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "maximum number of events")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output events as JSON")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd); err != nil {
		return err
	}
	if auditReader == nil {
		return errors.New("audit database not configured (set AUDIT_DB)")
	}

	events, err := auditReader.Recent(cmd.Context(), auditLimit)
	if err != nil {
		return fmt.Errorf("reading audit events: %w", err)
	}

	if auditJSON {
		return printJSON(cmd, events)
	}

	if len(events) == 0 {
		cmd.Println("No audit events.")
		return nil
	}

	for i := range events {
		e := &events[i]
		cmd.Printf("%s  %-18s  max_sim=%.3f  %s\n",
			e.Timestamp.Local().Format(time.DateTime), e.Decision, e.MaxSim, e.Question)
	}
	return nil
}
