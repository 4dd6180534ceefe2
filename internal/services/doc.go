// package services is the typed Spotify Web API client behind the tool
// surface.
//
// Response types follow https://developer.spotify.com/documentation/web-api/reference/
//
// Every read goes through the response cache and the retry layer;
// writes bypass the cache, are never retried, and invalidate the cached
// reads they affect.
package services
