package notify

import "fmt"

// Subject renders a one-line summary of the event.
func Subject(e Event) string {
	switch e.Type {
	case EventBookingCreated:
		return fmt.Sprintf("New booking #%d: %s (%s)", e.BookingID, e.Title, e.Status)
	case EventStatusChanged:
		return fmt.Sprintf("Booking #%d %s: %s", e.BookingID, e.Status, e.Title)
	case EventReminder:
		return fmt.Sprintf("Reminder: %s starts at %s", e.Title, e.Start.Format("15:04"))
	default:
		return fmt.Sprintf("Booking #%d: %s", e.BookingID, e.Title)
	}
}

// Body renders the full notification text shared by the chat and email sinks.
func Body(e Event) string {
	body := fmt.Sprintf(`%s

Room:      %s
Time:      %s – %s
Requester: %s
Equipment: %s
Notes:     %s
Status:    %s`,
		Subject(e),
		e.Room,
		e.Start.Format("2006-01-02 15:04"),
		e.End.Format("15:04"),
		e.Requester,
		e.EquipmentLabel(),
		e.NotesLabel(),
		e.Status,
	)
	if e.Type == EventStatusChanged && e.OldStatus != "" {
		body += fmt.Sprintf("\nPrevious:  %s", e.OldStatus)
	}
	return body
}
