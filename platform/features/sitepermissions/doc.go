// Package sitepermissions keeps what each user may do on each site.
//
// Permission checks of the other features go through the UserHasPermissionForSite query
// this package answers. Setting permissions itself is not checked here; the caller is
// expected to be a trusted administrative surface.
package sitepermissions
