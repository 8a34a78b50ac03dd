package models

// Profile is the account profile document of the "profile" resource.
type Profile struct {
	// FirstName is the given name of the account holder.
	FirstName string `json:"first_name"`

	// LastName is the family name of the account holder.
	LastName string `json:"last_name"`

	// Email is the primary contact address, also the alert destination.
	Email string `json:"email"`

	// Phone is the optional contact number in E.164 form.
	Phone string `json:"phone,omitempty"`

	// Company is the organization the account belongs to.
	Company string `json:"company,omitempty"`

	// Position is the job title within the organization.
	Position string `json:"position,omitempty"`

	// TwoFactorEnabled reports whether a second authentication factor is
	// configured. Read-only through this document; toggling it is a
	// separate enrollment flow outside this engine.
	TwoFactorEnabled bool `json:"two_factor_enabled"`
}
