// querygate serves read-only, whitelisted queries over SQLite tables.
//
// Each table is published as a catalog resource addressed by a URI
// template. Clients read a resource by URI; the filter, select, orderby,
// top and skip parameters are validated against the resource's property
// whitelist and a denylist of injection patterns before any SQL is built.
//
// Usage:
//
//	# Start the HTTP server
//	querygate serve --config querygate.yaml
//
//	# Validate the catalog file
//	querygate lint catalog.yaml
//
//	# Validate parameters against a resource
//	querygate check --resource books --param "filter=price gt 10"
//
//	# Resolve a URI and show the planned SQL
//	querygate match "odata://catalog/books?orderby=title%20desc"
//
//	# Run a read from the command line
//	querygate read "odata://catalog/books?top=5" --output csv
//
//	# Load rows into a resource's table
//	querygate load --resource books --file books.yaml
package main

func main() {
	Execute()
}
