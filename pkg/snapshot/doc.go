// Package snapshot stores rendered HTML snapshots.
//
// A Store is a flat key/value blob store. Two implementations are provided:
// FileStore writes under a local directory and S3Store writes objects to an
// S3 bucket (or any S3-compatible endpoint).
//
//	store, key, err := snapshot.OpenTarget(cfg, "s3://my-bucket/pages/index.html")
//	if err != nil {
//	    return err
//	}
//	err = store.Put(ctx, key, html)
package snapshot
