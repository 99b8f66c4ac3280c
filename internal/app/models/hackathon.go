package models

// Hackathon statuses
const (
	HackathonUpcoming  = "upcoming"
	HackathonOngoing   = "ongoing"
	HackathonCompleted = "completed"
)

// Prize is one prize tier of a hackathon
type Prize struct {
	Position string `json:"position" binding:"required"`
	Reward   string `json:"reward"`
}

// Winner is a winning team
type Winner struct {
	TeamName string   `json:"teamName" binding:"required"`
	Position string   `json:"position"`
	Members  []string `json:"members"`
	Project  string   `json:"project,omitempty"`
}

// Hackathon is a hackathon hosted by the council
type Hackathon struct {
	Base
	Title           string        `json:"title" binding:"required,max=200"`
	Description     string        `json:"description" binding:"required"`
	StartDate       string        `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         string        `json:"endDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Status          string        `json:"status" binding:"omitempty,oneof=upcoming ongoing completed"`
	Prizes          []Prize       `json:"prizes" binding:"dive"`
	Winners         []Winner      `json:"winners" binding:"dive"`
	Sponsors        []string      `json:"sponsors"`
	Gallery         []GalleryItem `json:"gallery" binding:"dive"`
	RegistrationURL string        `json:"registrationUrl,omitempty"`
}

func (h *Hackathon) SlugSource() string { return h.Title }
func (h *Hackathon) CategoryOf() string { return h.Status }

func (h *Hackathon) Normalize() {
	h.Prizes = orEmpty(h.Prizes)
	h.Winners = orEmpty(h.Winners)
	for i := range h.Winners {
		h.Winners[i].Members = orEmpty(h.Winners[i].Members)
	}
	h.Sponsors = orEmpty(h.Sponsors)
	h.Gallery = orEmpty(h.Gallery)
}
