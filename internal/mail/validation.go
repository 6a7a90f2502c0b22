package mail

import (
	"fmt"
	"net/url"
)

// ValidationMessage builds the subject and bodies of the account-validation
// e-mail. base is the front-end origin the link points at; token and username
// are query-escaped into it.
func ValidationMessage(base, token, username string) (subject, textBody, htmlBody string) {
	link := fmt.Sprintf("%s/validate?token=%s&username=%s",
		base, url.QueryEscape(token), url.QueryEscape(username))

	subject = "Validate your account"
	textBody = fmt.Sprintf("Follow this link to validate your account:\n\n%s\n", link)
	htmlBody = fmt.Sprintf("<a href=%q>Validate Account</a><br><p>%s</p>", link, link)
	return subject, textBody, htmlBody
}
