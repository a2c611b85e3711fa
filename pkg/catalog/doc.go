// Package catalog declares the resources querygate can read.
//
// A catalog is a YAML file listing resources. Each resource binds a URI
// template to a table and declares the property whitelist used to validate
// filter, select and orderby:
//
//	resources:
//	  - name: books
//	    template: "odata://catalog/books{?filter,select,orderby,top,skip}"
//	    table: books
//	    default_top: 100
//	    properties:
//	      title: string
//	      price: number
//	      published_at: datetime
//
// # Snapshots
//
// Load and Parse build an immutable Snapshot. A Registry serves one snapshot
// at a time and swaps in a new one atomically on Reload, so a request that
// resolved against the old snapshot keeps using it. A failed reload leaves
// the current snapshot in place.
//
// # Hot Reload
//
//	reg, err := catalog.Open("catalog.yaml", logger)
//	w, err := catalog.NewWatcher(reg, 100*time.Millisecond, logger)
//	go w.Watch(ctx)
//	defer w.Stop()
//
// Resolution tries resources in declaration order; the first matching
// template wins.
package catalog
