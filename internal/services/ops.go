package services

// Operation names shared by the cache keys and the tool surface. Cache
// invalidation after a mutation depends on these matching exactly.
const (
	OpSearchTracks       = "search_tracks"
	OpSearchArtists      = "search_artists"
	OpGetTrack           = "get_track"
	OpGetArtist          = "get_artist"
	OpGetUserProfile     = "get_user_profile"
	OpGetUserPlaylists   = "get_user_playlists"
	OpGetPlaylist        = "get_playlist"
	OpGetPlaylistTracks  = "get_playlist_tracks"
	OpGetSavedTracks     = "get_saved_tracks"
	OpGetTopItems        = "get_top_items"
	OpGetRecentlyPlayed  = "get_recently_played"
	OpGetFollowedArtists = "get_followed_artists"
	OpGetDevices         = "get_available_devices"
	OpGetGenres          = "get_available_genres"
	OpGetMarkets         = "get_available_markets"
	OpGetRecommendations = "get_recommendations"
)

// clampLimit normalizes a page size to the API's accepted range.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 50 {
		return 50
	}
	return limit
}
