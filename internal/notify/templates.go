package notify

import "consulate/internal/citizenship"

// Embed colors, one per outcome.
const (
	ColorSubmitted = 0x3498db
	ColorApproved  = 0x2ecc71
	ColorRejected  = 0xe74c3c
	ColorBan       = 0xf39c12
)

// Template is the static text of an applicant-facing direct message.
type Template struct {
	Title       string
	Description string
	Footer      string
	Color       int
}

var dmTemplates = map[citizenship.EventKind]Template{
	citizenship.KindSubmitted: {
		Title:       "Application Received",
		Description: "Your citizenship application has been submitted and is now under review. You will receive a DM once it has been processed.",
		Footer:      "Expected processing time: 2-5 business days",
		Color:       ColorSubmitted,
	},
	citizenship.KindApproved: {
		Title:       "Citizenship Application Approved",
		Description: "Congratulations! Your application for citizenship has been approved. You are now officially a citizen.",
		Footer:      "Welcome to the community",
		Color:       ColorApproved,
	},
	citizenship.KindRejected: {
		Title:       "Citizenship Application Declined",
		Description: "Unfortunately, your application for citizenship has been declined. You may reapply in the future if circumstances change.",
		Footer:      "Contact the support team if you have questions",
		Color:       ColorRejected,
	},
}

// TemplateFor returns the DM template for an event kind.
func TemplateFor(kind citizenship.EventKind) (Template, bool) {
	t, ok := dmTemplates[kind]
	return t, ok
}
