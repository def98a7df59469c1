// Package itunes looks albums and tracks up in the iTunes store using the
// public Search and Lookup APIs.
//
// # Searching
//
//	catalog := itunes.NewCatalog(http.NewClient(), itunes.DefaultConfig())
//	albums, err := catalog.SearchAlbums(ctx, "kraftwerk", "DE")
//	for _, a := range albums {
//	    fmt.Println(a.Label()) // e.g., "Computerwelt - Kraftwerk (1981)"
//	}
//
// # Data Format
//
// Both APIs answer with {"resultCount": n, "results": [...]} where results
// mix wrapper types. Searches keep only collections of type "Album";
// lookups keep only results with wrapper type "track". Cover art is
// linked as a 100x100 thumbnail whose URL is rewritten to request the
// configured ArtworkSize.
package itunes
