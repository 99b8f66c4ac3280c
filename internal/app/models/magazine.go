package models

// Magazine is one issue of the council magazine archive
type Magazine struct {
	Base
	Title       string     `json:"title" binding:"required,max=200"`
	Issue       string     `json:"issue,omitempty"`
	PublishedAt string     `json:"publishedAt" binding:"required,datetime=2006-01-02"`
	Description string     `json:"description,omitempty"`
	CoverURL    string     `json:"coverUrl,omitempty" binding:"omitempty,asseturl"`
	Documents   []Document `json:"documents" binding:"dive"`
}

func (m *Magazine) SlugSource() string { return m.Title }

// CategoryOf groups issues by publication year.
func (m *Magazine) CategoryOf() string {
	if len(m.PublishedAt) >= 4 {
		return m.PublishedAt[:4]
	}
	return ""
}

func (m *Magazine) Normalize() { m.Documents = orEmpty(m.Documents) }
