package schema

// CoreTitleTable represents the 'core.title' table
type CoreTitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	Rating      string
	CategoryID  string
	CreatedAt   string
	UpdatedAt   string
}

// CoreTitle is the schema definition for core.title
var CoreTitle = CoreTitleTable{
	Table:       "core.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	Rating:      "rating",
	CategoryID:  "categoryid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CoreTitleTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Year, t.Description, t.Rating, t.CategoryID, t.CreatedAt, t.UpdatedAt,
	}
}

// CoreTitleGenreTable represents the 'core.titlegenre' join table
type CoreTitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// CoreTitleGenre is the schema definition for core.titlegenre
var CoreTitleGenre = CoreTitleGenreTable{
	Table:   "core.titlegenre",
	TitleID: "titleid",
	GenreID: "genreid",
}
