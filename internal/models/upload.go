package models

// UploadFile is an output file destined for object storage.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
