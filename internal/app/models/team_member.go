package models

// TeamMember is a council office bearer shown on the team page
type TeamMember struct {
	Base
	Name     string `json:"name" binding:"required,max=120"`
	Role     string `json:"role" binding:"required,max=120"`
	Category string `json:"category"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	PhotoURL string `json:"photoUrl,omitempty" binding:"omitempty,asseturl"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Order    int    `json:"order" binding:"min=0"`
	Tenure   string `json:"tenure,omitempty"`
}

func (m *TeamMember) SlugSource() string { return m.Name }
func (m *TeamMember) CategoryOf() string { return m.Category }
