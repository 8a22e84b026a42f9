// Package auth provides the fiber middleware that turns the session cookie
// into a session view and guards routes that need one.
package auth
