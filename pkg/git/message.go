package git

import "strings"

// Conventional commit types used for page writes.
const (
	TypeDocs  = "docs"
	TypeChore = "chore"
)

// Footer marks commits made by nt.
const Footer = "Written-by: nt"

// FormatMessage builds a conventional commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Written-by: nt
func FormatMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder
	if ctype == "" {
		ctype = TypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}
	sb.WriteString("\n\n")
	sb.WriteString(Footer)
	return sb.String()
}

// WithFooter appends the footer to a free-form message unless present.
func WithFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}
	return strings.TrimRight(msg, "\n") + "\n\n" + Footer
}

// PageMessage is the message for writing a page file.
func PageMessage(page string, created bool) string {
	verb := "update"
	if created {
		verb = "add"
	}
	return FormatMessage(TypeDocs, "pages", verb+" "+page, "")
}
