package domain

// DefaultLocale is the only locale replies are phrased for.
const DefaultLocale = "de"

// Ticket is an incoming support request as received from the help desk.
type Ticket struct {
	Subject    string
	Body       string
	Salutation string
	Locale     string
}

// Text returns subject and body joined the way the classifier and the
// polish prompt see the customer's message.
func (t Ticket) Text() string {
	switch {
	case t.Subject == "":
		return t.Body
	case t.Body == "":
		return t.Subject
	}
	return t.Subject + " " + t.Body
}
