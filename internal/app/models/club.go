package models

// ClubMember is one entry of a club's roster
type ClubMember struct {
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl,omitempty" binding:"omitempty,asseturl"`
}

// Club is a technical club under the council
type Club struct {
	Base
	Name         string        `json:"name" binding:"required,max=120"`
	Description  string        `json:"description" binding:"required"`
	Category     string        `json:"category"`
	LogoURL      string        `json:"logoUrl,omitempty" binding:"omitempty,asseturl"`
	Gallery      []GalleryItem `json:"gallery" binding:"dive"`
	Team         []ClubMember  `json:"team" binding:"dive"`
	Achievements []string      `json:"achievements"`
	Website      string        `json:"website,omitempty"`
	Instagram    string        `json:"instagram,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

func (c *Club) SlugSource() string { return c.Name }
func (c *Club) CategoryOf() string { return c.Category }

func (c *Club) Normalize() {
	c.Gallery = orEmpty(c.Gallery)
	c.Team = orEmpty(c.Team)
	c.Achievements = orEmpty(c.Achievements)
}
