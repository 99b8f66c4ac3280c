package models

// Achievement is a result at an Inter-IIT Tech Meet
type Achievement struct {
	Base
	Title       string        `json:"title" binding:"required,max=200"`
	Year        int           `json:"year" binding:"required,min=1900,max=2100"`
	Meet        string        `json:"meet,omitempty"`
	Position    string        `json:"position,omitempty"`
	Category    string        `json:"category" binding:"required"`
	Description string        `json:"description,omitempty"`
	Team        []string      `json:"team"`
	Gallery     []GalleryItem `json:"gallery" binding:"dive"`
}

func (a *Achievement) SlugSource() string { return a.Title }
func (a *Achievement) CategoryOf() string { return a.Category }

func (a *Achievement) Normalize() {
	a.Team = orEmpty(a.Team)
	a.Gallery = orEmpty(a.Gallery)
}
