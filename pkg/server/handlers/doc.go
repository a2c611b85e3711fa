// Package handlers implements the querygate HTTP routes.
//
// Both routes take the resource URI in the uri query parameter:
//
//	GET /read?uri=...     rows as JSON
//	GET /explain?uri=...  validated query and SQL, nothing executed
//
// Status codes:
//
//	200  success
//	400  missing uri, invalid parameter, whitelist violation, forbidden pattern
//	404  no catalog resource matches the URI
//	405  method other than GET
//	500  anything else; the body never carries the cause
package handlers
