// Package objectstore provides picshelf.ObjectStore backends.
//
// Two implementations are available:
//
//   - S3Store: AWS S3 (or any S3-compatible endpoint such as MinIO or
//     localstack) via aws-sdk-go-v2. Objects are written with public-read
//     ACLs and addressed at <public-base>/<key>.
//   - FileStore: a local directory sandboxed with os.Root, using atomic
//     temp-file writes. Intended for development; the serve command mounts
//     the directory at /files/ so the returned URLs resolve.
//
// Both backends implement the same contract: exactly one outcome per Put,
// last-write-wins on duplicate keys, no retries.
package objectstore
