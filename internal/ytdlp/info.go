package ytdlp

import (
	"encoding/json"
	"fmt"

	"github.com/your-org/lilaloader/internal/media"
)

// MediaInfo is the metadata preview built from one yt-dlp JSON dump.
// Every field except Title degrades to empty rather than failing.
type MediaInfo struct {
	Title      string
	Uploader   string
	Thumbnail  string
	Avatar     string
	Extractor  string
	WebpageURL string
}

// Profile is the uploader subset of MediaInfo.
type Profile struct {
	Uploader string
	Avatar   string
}

// Field precedence tables for metadata that yt-dlp emits under different
// names depending on the extractor. First present non-empty wins.
var (
	thumbnailFields = []string{"thumbnail", "thumbnail_url", "og_image", "og_image_url", "image"}
	avatarFields    = []string{"uploader_avatar", "uploader_thumbnail", "channel_avatar"}
	uploaderFields  = []string{"uploader", "channel", "uploader_id"}
	extractorFields = []string{"extractor_key", "extractor"}
)

// ParseMediaInfo decodes a yt-dlp -J dump. src supplies the webpage URL
// fallback when the dump carries none.
func ParseMediaInfo(raw []byte, src media.SourceURL) (*MediaInfo, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	info := &MediaInfo{
		Title:      stringField(data, "title"),
		Uploader:   firstString(data, uploaderFields),
		Thumbnail:  pickThumbnail(data),
		Avatar:     firstString(data, avatarFields),
		Extractor:  firstString(data, extractorFields),
		WebpageURL: stringField(data, "webpage_url"),
	}
	if info.Title == "" {
		info.Title = "Untitled"
	}
	if info.WebpageURL == "" {
		info.WebpageURL = src.String()
	}
	return info, nil
}

// pickThumbnail walks the thumbnail field table, then falls back to the
// thumbnails array, whose last entry is conventionally the largest.
func pickThumbnail(data map[string]any) string {
	if v := firstString(data, thumbnailFields); v != "" {
		return v
	}

	arr, ok := data["thumbnails"].([]any)
	if !ok || len(arr) == 0 {
		return ""
	}
	last, ok := arr[len(arr)-1].(map[string]any)
	if !ok {
		return ""
	}
	if u := stringField(last, "url"); u != "" {
		return u
	}
	return stringField(last, "src")
}

func firstString(data map[string]any, fields []string) string {
	for _, f := range fields {
		if v := stringField(data, f); v != "" {
			return v
		}
	}
	return ""
}

func stringField(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}
