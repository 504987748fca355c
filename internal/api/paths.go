package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/yatube/yatube/internal/blog"
)

func postDetailURL(postID int64) string {
	return "/posts/" + strconv.FormatInt(postID, 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// viewURL maps a redirect target to its page
func viewURL(v blog.View) string {
	switch v.Kind {
	case blog.ViewPostDetail:
		return postDetailURL(v.PostID)
	case blog.ViewProfile:
		return profileURL(v.Username)
	default:
		return "/"
	}
}

// safeNext returns next when it is a local path and "/" otherwise
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
