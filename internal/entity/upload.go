package entity

import "time"

type UploadKind string

const (
	UploadKindNote   UploadKind = "note"
	UploadKindAvatar UploadKind = "avatar"
)

// Upload is the reservation record written when a file is accepted. It stays
// unclaimed until a note or profile references it; unclaimed uploads past
// ExpiresAt are swept together with their stored object.
type Upload struct {
	ID           string     `json:"id"`
	Kind         UploadKind `json:"kind"`
	StoredName   string     `json:"fileName"`
	URL          string     `json:"fileUrl"`
	OriginalName string     `json:"originalName"`
	Size         int64      `json:"fileSize"`
	MimeType     string     `json:"mimeType"`
	UploaderID   string     `json:"uploader"`
	ClaimedBy    string     `json:"claimedBy,omitempty"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (u *Upload) Claimed() bool {
	return u.ClaimedBy != ""
}
