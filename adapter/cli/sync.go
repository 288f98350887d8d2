package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	syncOrganizerID string
	syncLookAhead   time.Duration
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull busy windows from the configured CalDAV calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil || a.Syncer == nil {
			fmt.Println("sync requires a configured CalDAV endpoint (CALDAV_BASE_URL).")
			return nil
		}
		organizerID, err := uuid.Parse(syncOrganizerID)
		if err != nil {
			return fmt.Errorf("invalid --organizer: %w", err)
		}

		now := time.Now().UTC()
		result, err := a.Syncer.Sync(cmd.Context(), organizerID, now, now.Add(syncLookAhead))
		if err != nil {
			return fmt.Errorf("syncing calendar: %w", err)
		}
		fmt.Printf("synced organizer %s: %d upserted, %d pruned, %d failed\n", organizerID, result.Upserted, result.Deleted, result.Failed)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncOrganizerID, "organizer", "", "organizer id (required)")
	syncCmd.Flags().DurationVar(&syncLookAhead, "look-ahead", 14*24*time.Hour, "how far ahead to pull busy windows")
	_ = syncCmd.MarkFlagRequired("organizer")

	AddCommand(syncCmd)
}
