package models

// Event is a council or club event. Drafts are hidden from public listings.
type Event struct {
	Base
	Title           string        `json:"title" binding:"required,max=200"`
	Description     string        `json:"description" binding:"required"`
	Date            string        `json:"date" binding:"required,datetime=2006-01-02"`
	EndDate         string        `json:"endDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Venue           string        `json:"venue,omitempty"`
	Category        string        `json:"category" binding:"required"`
	Organizer       string        `json:"organizer,omitempty"`
	Gallery         []GalleryItem `json:"gallery" binding:"dive"`
	RegistrationURL string        `json:"registrationUrl,omitempty"`
	Draft           bool          `json:"draft"`
	Notes           string        `json:"notes,omitempty"`
}

func (e *Event) SlugSource() string { return e.Title }
func (e *Event) CategoryOf() string { return e.Category }

func (e *Event) Normalize() { e.Gallery = orEmpty(e.Gallery) }
