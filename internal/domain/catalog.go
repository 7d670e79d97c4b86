package domain

// Position is an opening an applicant can select as desired position
type Position struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Openings int    `json:"openings"`
}

var PositionCatalog = []Position{
	{ID: "mern-developer", Label: "MERN Stack Developer", Openings: 5},
	{ID: "mern-designer", Label: "MERN Stack Designer", Openings: 2},
	{ID: "mern-project-manager", Label: "MERN Project Manager", Openings: 1},
	{ID: "frontend-developer", Label: "Frontend Developer", Openings: 3},
	{ID: "backend-developer", Label: "Backend Developer", Openings: 3},
	{ID: "fullstack-developer", Label: "Full Stack Developer", Openings: 4},
	{ID: "database-designer", Label: "Database Designer", Openings: 1},
	{ID: "data-analyst", Label: "Data Analyst", Openings: 2},
	{ID: "database-administrator", Label: "Database Administrator", Openings: 1},
}

func FindPosition(id string) (Position, bool) {
	for _, p := range PositionCatalog {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}
