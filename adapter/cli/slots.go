package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/slotforge/availability/internal/availability/application/queries"
)

var (
	slotsOrganizerID  string
	slotsEventType    string
	slotsStart        string
	slotsEnd          string
	slotsInviteeTZ    string
	slotsInviteeTZs   string
	slotsAttendeeCt   int
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Compute available slots for an organizer and event type",
	Long: `Compute the available booking slots for an organizer's event type
over a date range, honoring rules, overrides, blocks, bookings, and
invitee timezone fairness.

Examples:
  availctl slots --organizer <id> --event coffee-chat --from 2026-08-01 --to 2026-08-07
  availctl slots --organizer <id> --event demo --from 2026-08-01 --to 2026-08-01 --invitee-tz Asia/Tokyo`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		if a == nil || a.CalculateSlotsHandler == nil {
			fmt.Println("slots requires a configured availability engine.")
			return nil
		}

		organizerID, err := uuid.Parse(slotsOrganizerID)
		if err != nil {
			return fmt.Errorf("invalid --organizer: %w", err)
		}
		startDate, err := time.Parse("2006-01-02", slotsStart)
		if err != nil {
			return fmt.Errorf("invalid --from, use YYYY-MM-DD: %w", err)
		}
		endDate, err := time.Parse("2006-01-02", slotsEnd)
		if err != nil {
			return fmt.Errorf("invalid --to, use YYYY-MM-DD: %w", err)
		}

		var tzs []string
		if slotsInviteeTZs != "" {
			for _, tz := range strings.Split(slotsInviteeTZs, ",") {
				if tz = strings.TrimSpace(tz); tz != "" {
					tzs = append(tzs, tz)
				}
			}
		}

		result, err := a.CalculateSlotsHandler.Handle(cmd.Context(), queries.CalculateAvailableSlotsQuery{
			OrganizerID:      organizerID,
			EventTypeSlug:    slotsEventType,
			StartDate:        startDate,
			EndDate:          endDate,
			InviteeTimezone:  slotsInviteeTZ,
			InviteeTimezones: tzs,
			AttendeeCount:    slotsAttendeeCt,
		})
		if err != nil {
			return fmt.Errorf("computing slots: %w", err)
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Slots)
	},
}

func init() {
	slotsCmd.Flags().StringVar(&slotsOrganizerID, "organizer", "", "organizer id (required)")
	slotsCmd.Flags().StringVar(&slotsEventType, "event", "", "event type slug (required)")
	slotsCmd.Flags().StringVar(&slotsStart, "from", "", "start date, YYYY-MM-DD (required)")
	slotsCmd.Flags().StringVar(&slotsEnd, "to", "", "end date, YYYY-MM-DD (required)")
	slotsCmd.Flags().StringVar(&slotsInviteeTZ, "invitee-tz", "", "single invitee IANA timezone")
	slotsCmd.Flags().StringVar(&slotsInviteeTZs, "invitee-tzs", "", "comma-separated invitee IANA timezones for fairness intersection")
	slotsCmd.Flags().IntVar(&slotsAttendeeCt, "attendees", 1, "attendee count for group event capacity checks")
	_ = slotsCmd.MarkFlagRequired("organizer")
	_ = slotsCmd.MarkFlagRequired("event")
	_ = slotsCmd.MarkFlagRequired("from")
	_ = slotsCmd.MarkFlagRequired("to")

	AddCommand(slotsCmd)
}
