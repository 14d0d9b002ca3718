// Package followers keeps the external accounts following each site.
//
// Followers arrive from provider integrations rather than from site users, so the commands
// carry no permission check.
package followers
