// File: internal/services/guru/types.go
package guru

// CreateInput is the payload for creating a guru. Settings fields are
// optional; unset ones take the configured defaults.
type CreateInput struct {
	Name        string
	Subject     string
	Description string
	Avatar      string
	IsPublic    bool
	Tags        []string
	Model       *string
	Temperature *float32
	MaxTokens   *int
	TopP        *float32
}

// UpdateInput is a typed partial update: every field is independently
// nullable and only non-nil fields are applied. Scalar fields replace,
// Tags replaces wholesale, settings fields merge into the existing
// settings one by one.
type UpdateInput struct {
	Name        *string
	Subject     *string
	Description *string
	Avatar      *string
	IsPublic    *bool
	Tags        *[]string
	Model       *string
	Temperature *float32
	MaxTokens   *int
	TopP        *float32
}

// Empty reports whether the update carries no changes at all.
func (in *UpdateInput) Empty() bool {
	return in.Name == nil && in.Subject == nil && in.Description == nil &&
		in.Avatar == nil && in.IsPublic == nil && in.Tags == nil &&
		in.Model == nil && in.Temperature == nil && in.MaxTokens == nil && in.TopP == nil
}
