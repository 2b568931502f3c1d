// Package resilience protects the wiki search API from request bursts.
//
// A Bulkhead bounds how many searches run at once. By default callers beyond
// the limit queue until a slot frees up or their context ends. An optional
// MaxWait turns a long wait into ErrBulkheadFull. Failed operations are never
// retried here.
//
//	b := resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 16})
//
//	err := b.Execute(ctx, func(ctx context.Context) error {
//	    return search(ctx)
//	})
package resilience
