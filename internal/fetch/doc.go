// Package fetch retrieves statistics pages and parses them into goquery
// documents.
//
// Every fetch has an explicit outcome: a *Page on success, or an error that
// is either a *StatusError (the server answered with a non-2xx status) or a
// wrapped transport/parse error. Callers decide how much work to skip; the
// client never retries.
//
// # Usage
//
//	client := fetch.NewClient(fetch.WithTimeout(30 * time.Second))
//	page, err := client.Fetch(ctx, "https://www.nfl.com/stats/player-stats/")
//	if err != nil {
//	    var statusErr *fetch.StatusError
//	    if errors.As(err, &statusErr) { ... }
//	}
//	page.Doc.Find("a.nfl-o-table-pagination__next")
package fetch
