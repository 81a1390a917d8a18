// Package picshelf provides a small image gallery backend with pluggable
// metadata backends and object storage.
//
// Picshelf stores image binaries in an object store (S3 or local filesystem)
// and a metadata row per image in a relational table. Users authenticate with
// a username/password pair and receive a signed bearer token.
//
// # Key Components
//
//   - GalleryService: upload/list/rename/bulk-delete orchestration
//   - AuthService: credential verification and token issuance
//   - GalleryRepo: interface for metadata persistence (PostgreSQL, SQLite)
//   - ObjectStore: interface for binary storage (S3, filesystem)
//
// # Example Usage
//
//	svc := picshelf.NewGalleryService(repo, store, picshelf.ServiceConfig{})
//
//	// Upload an image
//	img, err := svc.Upload(ctx, picshelf.UploadRequest{
//	    Filename:    "photo.png",
//	    ContentType: "image/png",
//	}, reader)
//
//	// List the gallery
//	images, err := svc.List(ctx)
//
// See the http package for the REST API implementation and the
// database/sqlite and database/postgres packages for metadata backends.
package picshelf
