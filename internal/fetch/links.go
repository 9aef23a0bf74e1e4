package fetch

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"']+`)

var videoHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
}

// ExtractLinks pulls http(s) URLs out of markdown and splits them into web
// pages and videos. Duplicates are removed, first occurrence wins.
func ExtractLinks(markdown string) (web, video []string) {
	seen := make(map[string]bool)
	for _, raw := range urlPattern.FindAllString(markdown, -1) {
		u := strings.TrimRight(raw, ".,;")
		if seen[u] {
			continue
		}
		seen[u] = true
		if isVideoURL(u) {
			video = append(video, u)
		} else {
			web = append(web, u)
		}
	}
	return web, video
}

func isVideoURL(u string) bool {
	for _, host := range videoHosts {
		if strings.Contains(u, "://"+host+"/") || strings.Contains(u, "://www."+host+"/") {
			return true
		}
	}
	return false
}
