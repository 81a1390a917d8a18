package picshelf

// MaxImageNameLength is the longest display name a gallery image may carry.
const MaxImageNameLength = 150

// Image is the metadata row describing an uploaded object. StorageURL is set
// once at creation and never changes; renames touch only Name.
type Image struct {
	ID         int64  `json:"id"`
	StorageURL string `json:"user_file"`
	Name       string `json:"name"`
}

// User is an account record. PasswordHash is a bcrypt hash, never the
// plaintext password, and is never serialized to clients.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// UploadRequest describes an incoming image upload. Filename is the
// client-supplied name before sanitization.
type UploadRequest struct {
	Filename    string
	ContentType string
}

// Token is a signed, time-limited credential asserting a user's identity.
type Token struct {
	Access string `json:"access_token"`
}
