package stream

import (
	"github.com/your-org/lilaloader/internal/media"
	"github.com/your-org/lilaloader/internal/ytdlp"
)

// Format is the requested output container.
type Format string

const (
	FormatMP4 Format = "mp4"
	FormatMP3 Format = "mp3"
)

// ParseFormat coerces unknown values to mp4, matching the lenient query
// parameter handling of the public API.
func ParseFormat(raw string) Format {
	if raw == "mp3" {
		return FormatMP3
	}
	return FormatMP4
}

func (f Format) Extension() string {
	if f == FormatMP3 {
		return "mp3"
	}
	return "mp4"
}

func (f Format) ContentType() string {
	if f == FormatMP3 {
		return "audio/mpeg"
	}
	return "video/mp4"
}

// Quality is a coarse height ceiling. Only meaningful for mp4; audio
// downloads ignore it.
type Quality string

const (
	QualityBest Quality = "best"
	Quality720  Quality = "720"
	Quality1080 Quality = "1080"
)

func ParseQuality(raw string) Quality {
	switch raw {
	case "720":
		return Quality720
	case "1080":
		return Quality1080
	default:
		return QualityBest
	}
}

// Request describes one download to stream.
type Request struct {
	URL     media.SourceURL
	Format  Format
	Quality Quality
	Title   string
}

// Filename returns the sanitized attachment filename including extension.
func (r Request) Filename() string {
	title := r.Title
	if title == "" {
		title = media.FallbackFilename
	}
	return media.SanitizeFilename(title) + "." + r.Format.Extension()
}

// buildArgs assembles the yt-dlp argument list for one download. All
// scratch state is confined to workspace via --paths; output goes to
// stdout so bytes can be piped straight into the response.
func buildArgs(req Request, workspace, cookiesFile string) []string {
	args := ytdlp.BaseArgs()
	args = append(args,
		"--no-playlist",
		"--no-cache-dir",
		"--no-part",
		"--paths", "temp:"+workspace,
		"--paths", "home:"+workspace,
		"-o", "-",
	)
	args = append(args, ytdlp.CookieArgs(cookiesFile)...)

	if req.Format == FormatMP3 {
		args = append(args,
			"-f", "bestaudio",
			"--extract-audio",
			"--audio-format", "mp3",
			"--audio-quality", "0",
		)
	} else {
		switch req.Quality {
		case Quality1080:
			args = append(args,
				"-f", "bestvideo[ext=mp4][height<=1080]+bestaudio[ext=m4a]/best[height<=1080][ext=mp4]/best",
				"--merge-output-format", "mp4",
			)
		case Quality720:
			args = append(args,
				"-f", "bestvideo[ext=mp4][height<=720]+bestaudio[ext=m4a]/best[height<=720][ext=mp4]/best",
				"--merge-output-format", "mp4",
			)
		default:
			args = append(args,
				"-f", "bestvideo+bestaudio/best",
				"--merge-output-format", "mp4",
			)
		}
	}

	return append(args, req.URL.String())
}
