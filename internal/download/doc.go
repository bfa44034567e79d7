// Package download wraps the yt-dlp binary for fetching videos and their
// metadata from video sites. Downloads land in a task's temp directory;
// the largest media file there is taken as the merged result, since
// yt-dlp's final filename is not reliably predictable across extractors.
package download
