package models

// Principal is the authenticated caller
type Principal struct {
	ID          string
	Username    string
	Role        Role
	DisplayName string
	PartnerID   string
}

// HasPartner reports whether the principal is linked
func (p Principal) HasPartner() bool {
	return p.PartnerID != ""
}

// CoupleScope returns the ids whose shared content the principal may see:
// the principal itself and, when linked, the partner.
func (p Principal) CoupleScope() []string {
	if p.PartnerID == "" {
		return []string{p.ID}
	}
	return []string{p.ID, p.PartnerID}
}

// InScope reports whether userID belongs to the couple scope
func (p Principal) InScope(userID string) bool {
	if userID == "" {
		return false
	}
	return userID == p.ID || userID == p.PartnerID
}

// PrincipalFromUser builds a principal from a stored user
func PrincipalFromUser(u *User) Principal {
	p := Principal{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		DisplayName: u.DisplayName,
	}
	if u.PartnerID != nil {
		p.PartnerID = *u.PartnerID
	}
	return p
}
