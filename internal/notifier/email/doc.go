// Package email sends membership reports by SMTP.
//
// The channel builds a single-part text message whose body is the rendered
// snapshot and hands it to a Sender. The default Sender is backed by go-mail
// and opens one connection per Notify call, closing it on every exit path.
package email
