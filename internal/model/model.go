// Package model holds the normalized user and group metadata returned by
// unified events. Fields a platform does not provide stay nil.
package model

// User is normalized user metadata
type User struct {
	ID     string
	Name   string
	Avatar *string
}

// Group is normalized metadata of a group, guild or channel
type Group struct {
	ID          string
	Name        string
	Avatar      *string
	OwnerID     *string
	MemberCount *int
	MaxMembers  *int
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// NonEmpty returns a pointer to s, or nil when s is empty
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
