// Package model defines core types used throughout usersearch.
//
// # Records
//
//   - Record: anything the index can search (an ID plus named string fields)
//   - User: the user directory record of the photo-sharing app
//
// # Results
//
//   - Range: a matched byte span inside one field value
//
// Field names exposed by User:
//
//	id, username, displayName (alias: name), profileImage
package model
