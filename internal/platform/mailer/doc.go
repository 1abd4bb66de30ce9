// Package mailer renders and delivers the application's outgoing email.
//
// SMTPMailer delivers through an SMTP relay using go-mail; LogMailer stands in
// when no relay is configured and only writes the message to the log.
package mailer
