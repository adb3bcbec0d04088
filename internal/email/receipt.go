package email

import "fmt"

// ReceiptMessage builds the submission receipt mail for one attendance record.
func ReceiptMessage(to string, name string, subdivision string, attendanceType string, recordedAt string, photoURL string) *Message {
	html := fmt.Sprintf(`<html><body>
<h2>Attendance recorded</h2>
<p>Hi %s,</p>
<p>Your <strong>%s</strong> attendance for subdivision <strong>%s</strong> was recorded at %s.</p>
<p>Photo: <a href="%s">%s</a></p>
</body></html>`, name, attendanceType, subdivision, recordedAt, photoURL, photoURL)

	return &Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Attendance %s recorded for %s", attendanceType, name),
		HTML:    html,
	}
}
