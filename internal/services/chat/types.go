// File: internal/services/chat/types.go
package chat

// UpdateInput is a typed partial update for a chat: each field is
// independently nullable, only non-nil fields are applied. Settings
// fields merge one by one into the existing settings object; Tags
// replaces wholesale.
type UpdateInput struct {
	Title       *string
	IsPublic    *bool
	Tags        *[]string
	AutoTitle   *bool
	SaveHistory *bool
}

// Empty reports whether the update carries no changes at all.
func (in *UpdateInput) Empty() bool {
	return in.Title == nil && in.IsPublic == nil && in.Tags == nil &&
		in.AutoTitle == nil && in.SaveHistory == nil
}
