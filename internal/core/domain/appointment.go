package domain

// AppointmentDraft is everything the user supplies for a booking.
// The event identifier is assigned by the calendar store on success.
type AppointmentDraft struct {
	Title       string
	Description string
	Window      TimeWindow
	Attendee    string
}

// Appointment is a confirmed booking as acknowledged by the calendar
// store. There are no update or delete operations on appointments.
type Appointment struct {
	EventID     string     `json:"eventId"`
	Link        string     `json:"link,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Window      TimeWindow `json:"window"`
	Attendee    string     `json:"attendee,omitempty"`
}
