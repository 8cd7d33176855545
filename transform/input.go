package transform

import "github.com/footprintlab/scanner/models"

// Dataset is the raw record stream produced by the synthetic world generator.
// The shape is fixed per platform/engine; absent keys decode to zero values
// and are handled defensively rather than validated.
type Dataset struct {
	SocialMedia   SocialMediaData   `json:"social_media"`
	SearchResults SearchResultsData `json:"search_results"`
}

type SocialMediaData struct {
	Platforms []PlatformData `json:"platforms"`
}

type PlatformData struct {
	Name     models.Platform            `json:"name"`
	Profiles []Profile                  `json:"profiles"`
	Posts    map[models.PostKind][]Post `json:"posts"`
}

type Profile struct {
	Username          string   `json:"username"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	DisplayName       string   `json:"display_name"`
	Bio               string   `json:"bio"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Address           string   `json:"address"`
	ProfilePictureURL string   `json:"profile_picture_url"`
	Work              []string `json:"work"`
	Education         []string `json:"education"`
}

type Post struct {
	URL         string   `json:"url"`
	Username    string   `json:"username"`
	Content     string   `json:"content"`
	Location    string   `json:"location"`
	Timestamp   string   `json:"timestamp"`
	TaggedUsers []string `json:"tagged_users"`
}

type SearchResultsData struct {
	Engines []EngineData `json:"engines"`
}

type EngineData struct {
	Name    models.Engine                        `json:"name"`
	Results map[models.ResultKind][]SearchResult `json:"results"`
}

type SearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}
