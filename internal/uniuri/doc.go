// Package uniuri generates random URL-safe strings for OAuth state values
// and generated signing secrets.
package uniuri
