package notifications

import (
	"fmt"
	"html"
	"time"
)

const dateLayout = "2006-01-02"

func WelcomeEmail(fullName string) (subject, body string) {
	return "Welcome!", fmt.Sprintf("<h1>Welcome, %s!</h1><p>Thank you for registering.</p>", html.EscapeString(fullName))
}

func ReservationEmail(hotelName, roomName string, start, end time.Time) (subject, body string) {
	subject = "Your reservation is confirmed"
	body = fmt.Sprintf(
		"<h1>Reservation Confirmed</h1><p>%s, room %s.</p><p>From <b>%s</b> to <b>%s</b>.</p>",
		html.EscapeString(hotelName),
		html.EscapeString(roomName),
		start.Format(dateLayout),
		end.Format(dateLayout),
	)
	return subject, body
}
