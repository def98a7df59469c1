// Package progress renders a terminal spinner while blocking work runs.
//
// The spinner carries no data. Its only shared state is a Status: the
// goroutine doing the work calls Finish exactly once, the spinner
// goroutine reads it, and Stop joins the spinner before returning, so no
// output interleaves with what the caller prints next.
//
//	albums, err := progress.Track(os.Stderr, "Searching albums", func() ([]*model.Album, error) {
//	    return manager.Search(ctx, query)
//	})
package progress
