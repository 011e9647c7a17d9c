package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent entries from the decision log",
	Long: `Audit prints recent validation decisions from the SQLite decision log.
Requires STRUCTPROOF_AUDIT_DB (or audit_db_path in the config file) to be set.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "max entries")
}

func runAudit(cmd *cobra.Command, args []string) error {
	if cfg.AuditDBPath == "" {
		return errors.New("no audit store configured (set STRUCTPROOF_AUDIT_DB)")
	}

	svc, err := getService()
	if err != nil {
		return err
	}

	events, err := svc.AuditLog().Recent(context.Background(), auditLimit)
	if err != nil {
		return fmt.Errorf("read decision log: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No decisions recorded.")
		return nil
	}

	for _, e := range events {
		verdict := "invalid"
		if e.Valid {
			verdict = "valid"
		}
		fmt.Printf("%s  %-17s %-8s entropy=%.4f  %dms", e.Time.Format("2006-01-02 15:04:05"), e.Type, verdict, e.EntropyScore, e.DurationMs)
		if e.Reason != "" {
			fmt.Printf("  (%s)", e.Reason)
		}
		fmt.Println()
	}
	return nil
}
