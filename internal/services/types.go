package services

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type followers struct {
	Total int `json:"total"`
}

// User represents a Spotify user profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
	Images      []Image   `json:"images"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// Track represents a Spotify track.
type Track struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []Artist    `json:"artists"`
	Album       Album       `json:"album"`
	DurationMS  int         `json:"duration_ms"`
	Explicit    bool        `json:"explicit"`
	ExternalIDs externalIDs `json:"external_ids"`
	Popularity  int         `json:"popularity"`
	PreviewURL  string      `json:"preview_url"`
	URI         string      `json:"uri"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  followers `json:"followers"`
	Images     []Image   `json:"images"`
	URI        string    `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// Owner identifies a playlist owner.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type trackCount struct {
	Total int `json:"total"`
}

// Playlist represents a playlist as returned in listings.
type Playlist struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Owner       Owner      `json:"owner"`
	Public      bool       `json:"public"`
	Tracks      trackCount `json:"tracks"`
	Images      []Image    `json:"images"`
	URI         string     `json:"uri"`
}

// PlaylistTrack represents a track within a playlist context.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// SavedTrack represents a track saved in the user's library.
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// Page is a paginated Spotify API response.
type Page[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Device represents a playback device.
type Device struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	IsRestricted     bool   `json:"is_restricted"`
	VolumePercent    int    `json:"volume_percent"`
}

// PlaybackState represents the user's current playback context.
type PlaybackState struct {
	Device       Device `json:"device"`
	RepeatState  string `json:"repeat_state"`
	ShuffleState bool   `json:"shuffle_state"`
	ProgressMS   int    `json:"progress_ms"`
	IsPlaying    bool   `json:"is_playing"`
	Item         *Track `json:"item"`
}

// PlayHistoryItem represents one recently played track.
type PlayHistoryItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// RecommendationSeed describes one seed the recommendation engine used.
type RecommendationSeed struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Href string `json:"href"`
}

// Recommendations is the recommendation engine's response.
type Recommendations struct {
	Seeds  []RecommendationSeed `json:"seeds"`
	Tracks []Track              `json:"tracks"`
}

// SearchResults holds the sections of a search response that this
// client requests.
type SearchResults struct {
	Tracks  *Page[Track]  `json:"tracks,omitempty"`
	Artists *Page[Artist] `json:"artists,omitempty"`
}
