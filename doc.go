// Package main provides the entry point of authcore, an authentication
// service that signs users in with GitHub or Google, links the verified
// e-mail to a local user record and issues a signed session token that is
// valid for 90 days.
//
// Run "authcore start" to serve the sign-in routes and "authcore config dump"
// to print the effective configuration.
package main
