package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or invalidate the computed-availability cache",
}

var (
	markDirtyOrganizerID string
	markDirtyFull        bool
	markDirtyReason      string
)

var markDirtyCmd = &cobra.Command{
	Use:   "mark-dirty",
	Short: "Mark an organizer's cached availability as stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil || a.DirtySet == nil {
			fmt.Println("cache mark-dirty requires a configured cache backend.")
			return nil
		}
		organizerID, err := uuid.Parse(markDirtyOrganizerID)
		if err != nil {
			return fmt.Errorf("invalid --organizer: %w", err)
		}

		extras := map[string]any{}
		if markDirtyReason != "" {
			extras["reason"] = markDirtyReason
		}
		if err := a.DirtySet.MarkDirty(cmd.Context(), organizerID, "availability", markDirtyFull, extras, time.Now().UTC()); err != nil {
			return fmt.Errorf("marking dirty: %w", err)
		}
		fmt.Printf("marked organizer %s dirty (full_invalidation=%t)\n", organizerID, markDirtyFull)
		return nil
	},
}

var listDirtyCmd = &cobra.Command{
	Use:   "list-dirty",
	Short: "List organizers with stale cached availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil || a.DirtySet == nil {
			fmt.Println("cache list-dirty requires a configured cache backend.")
			return nil
		}
		ids, err := a.DirtySet.ListDirty(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing dirty organizers: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("no organizers currently marked dirty")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var clearDirtyOrganizerID string

var clearDirtyCmd = &cobra.Command{
	Use:   "clear-dirty",
	Short: "Clear an organizer's dirty marker after a cache sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil || a.DirtySet == nil {
			fmt.Println("cache clear-dirty requires a configured cache backend.")
			return nil
		}
		organizerID, err := uuid.Parse(clearDirtyOrganizerID)
		if err != nil {
			return fmt.Errorf("invalid --organizer: %w", err)
		}
		if err := a.DirtySet.ClearDirty(cmd.Context(), organizerID); err != nil {
			return fmt.Errorf("clearing dirty marker: %w", err)
		}
		fmt.Printf("cleared dirty marker for organizer %s\n", organizerID)
		return nil
	},
}

func init() {
	markDirtyCmd.Flags().StringVar(&markDirtyOrganizerID, "organizer", "", "organizer id (required)")
	markDirtyCmd.Flags().BoolVar(&markDirtyFull, "full", false, "require full cache invalidation, not just a sweep hint")
	markDirtyCmd.Flags().StringVar(&markDirtyReason, "reason", "", "free-form reason recorded with the dirty entry")
	_ = markDirtyCmd.MarkFlagRequired("organizer")

	clearDirtyCmd.Flags().StringVar(&clearDirtyOrganizerID, "organizer", "", "organizer id (required)")
	_ = clearDirtyCmd.MarkFlagRequired("organizer")

	cacheCmd.AddCommand(markDirtyCmd, listDirtyCmd, clearDirtyCmd)
	AddCommand(cacheCmd)
}
