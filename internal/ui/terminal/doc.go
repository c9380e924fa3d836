// Package terminal renders a room session as plain lines on a terminal.
//
// Presenter implements domain.Presenter. Everything a peer controls (names,
// text, file names) passes through Clean before it is printed, so control
// sequences never reach the terminal. Printable text is shown as sent.
// Received files are written to a downloads directory when one is configured.
package terminal
