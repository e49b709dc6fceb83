package model

import "fmt"

// Field names exposed by User.
const (
	FieldID           = "id"
	FieldUsername     = "username"
	FieldDisplayName  = "displayName"
	FieldName         = "name" // alias of FieldDisplayName
	FieldProfileImage = "profileImage"
)

// Record is the contract between the index and the records it searches.
//
// Field reports the string value of a named field. ok=false means the field
// does not exist in the record shape, which is a caller error at build time.
type Record interface {
	RecordID() string
	Field(name string) (value string, ok bool)
}

// User is an immutable snapshot of a user directory entry.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// RecordID implements Record.
func (u User) RecordID() string { return u.ID }

// Field implements Record.
func (u User) Field(name string) (string, bool) {
	switch name {
	case FieldID:
		return u.ID, true
	case FieldUsername:
		return u.Username, true
	case FieldDisplayName, FieldName:
		return u.DisplayName, true
	case FieldProfileImage:
		return u.ProfileImage, true
	default:
		return "", false
	}
}

// String returns a short representation of the User.
func (u User) String() string {
	return fmt.Sprintf("User(%s @%s)", u.ID, u.Username)
}

// Range is a half-open byte range [Start, End) of a matched span within the
// value of Field.
type Range struct {
	Field string
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int { return r.End - r.Start }

// String returns a string representation of the Range.
func (r Range) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Field, r.Start, r.End)
}
