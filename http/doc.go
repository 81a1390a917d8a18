// Package http provides the REST API for the picshelf gallery.
//
// # Routes
//
//   - GET    /images           list all gallery images
//   - POST   /insert           multipart upload (field "user_file")
//   - PUT    /update/{id}      rename an image
//   - DELETE /delete_selected  bulk-delete by id list
//   - POST   /login            exchange credentials for a bearer token
//
// When the filesystem object store is active, GET /files/* serves the stored
// objects so the URLs handed out by uploads resolve.
//
// # Error Responses
//
// Every error response is JSON with a human-readable "message" field:
// validation failures map to 400, unknown ids to 404, bad credentials to 401,
// and upstream storage failures to 500. A storage failure is never reported
// as success.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{}, gallery, auth)
//	srv := &nethttp.Server{Addr: ":5000", Handler: handler.Router()}
//	srv.ListenAndServe()
package http
