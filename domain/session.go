package domain

// SessionRecord is one file of the session credential set as kept by the
// remote store. Filename is slash separated and relative to the local folder.
type SessionRecord struct {
	Filename      string `bson:"filename" json:"filename"`
	ContentBase64 string `bson:"data" json:"data"`
}
