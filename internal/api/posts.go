package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/blog"
)

const uploadDir = "posts"

var postFormFields = []string{"text", "group", "image"}

func pageParam(c *gin.Context) int {
	return blog.ParsePage(c.Query("page"))
}

func postIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, blog.ErrNotFound)
		return 0, false
	}
	return id, true
}

func redirectTo(c *gin.Context, out blog.Outcome) {
	c.Redirect(http.StatusFound, viewURL(out.Redirect))
}

// index handles GET /
func (r *Router) index(c *gin.Context) {
	page, err := r.blog.ListPosts(c.Request.Context(), blog.AllPosts(), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// groupPosts handles GET /group/:slug/
func (r *Router) groupPosts(c *gin.Context) {
	page, err := r.blog.GroupPage(c.Request.Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// profile handles GET /profile/:username/
func (r *Router) profile(c *gin.Context) {
	page, err := r.blog.Profile(c.Request.Context(), identity(c), c.Param("username"), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// postDetail handles GET /posts/:post_id/
func (r *Router) postDetail(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	detail, err := r.blog.PostDetail(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":         detail.Post,
		"comments":     detail.Comments,
		"author_posts": detail.AuthorPosts,
		"can_edit":     blog.CanEdit(identity(c), detail.Post),
	})
}

// createPostForm handles GET /create/
func (r *Router) createPostForm(c *gin.Context) {
	groups, err := r.blog.ListGroups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields":  postFormFields,
		"groups":  groups,
		"is_edit": false,
	})
}

// createPost handles POST /create/
func (r *Router) createPost(c *gin.Context) {
	image, err := r.saveImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	out, _, err := r.blog.CreatePost(c.Request.Context(), identity(c), blog.PostInput{
		Text:      c.PostForm("text"),
		GroupSlug: c.PostForm("group"),
		Image:     image,
	})
	if err != nil {
		r.discardImage(image)
		respondError(c, err)
		return
	}
	redirectTo(c, out)
}

// editPostForm handles GET /posts/:post_id/edit/
func (r *Router) editPostForm(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	detail, err := r.blog.PostDetail(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !blog.CanEdit(identity(c), detail.Post) {
		c.Redirect(http.StatusFound, postDetailURL(postID))
		return
	}

	groups, err := r.blog.ListGroups(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields":  postFormFields,
		"groups":  groups,
		"post":    detail.Post,
		"is_edit": true,
	})
}

// editPost handles POST /posts/:post_id/edit/
func (r *Router) editPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	detail, err := r.blog.PostDetail(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !blog.CanEdit(identity(c), detail.Post) {
		c.Redirect(http.StatusFound, postDetailURL(postID))
		return
	}

	var changes blog.PostChanges
	if text, ok := c.GetPostForm("text"); ok {
		changes.Text = &text
	}
	if group, ok := c.GetPostForm("group"); ok {
		changes.GroupSlug = &group
	}

	image, err := r.saveImage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if image != "" {
		changes.Image = &image
	}

	out, _, err := r.blog.EditPost(c.Request.Context(), identity(c), postID, changes)
	if err != nil {
		r.discardImage(image)
		respondError(c, err)
		return
	}
	if out.Result != blog.Applied {
		r.discardImage(image)
	}
	redirectTo(c, out)
}

// addComment handles POST /posts/:post_id/comment/
func (r *Router) addComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	out, _, err := r.blog.CreateComment(c.Request.Context(), identity(c), postID, c.PostForm("text"))
	if err != nil {
		respondError(c, err)
		return
	}
	redirectTo(c, out)
}

// followIndex handles GET /follow/
func (r *Router) followIndex(c *gin.Context) {
	page, err := r.blog.Feed(c.Request.Context(), identity(c), pageParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

// profileFollow handles /profile/:username/follow/
func (r *Router) profileFollow(c *gin.Context) {
	out, err := r.blog.Follow(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	redirectTo(c, out)
}

// profileUnfollow handles /profile/:username/unfollow/
func (r *Router) profileUnfollow(c *gin.Context) {
	out, err := r.blog.Unfollow(c.Request.Context(), identity(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	redirectTo(c, out)
}

// saveImage stores the uploaded "image" under the media root and returns its
// path relative to it. No upload yields an empty path.
func (r *Router) saveImage(c *gin.Context) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", &blog.ValidationError{Fields: map[string]string{"image": "The submitted data was not a file."}}
	}

	if err := checkImage(fh); err != nil {
		return "", err
	}

	dir := filepath.Join(r.cfg.Server.MediaRoot, uploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), cleanFilename(fh.Filename))
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return uploadDir + "/" + name, nil
}

func (r *Router) discardImage(image string) {
	if image == "" {
		return
	}
	path := filepath.Join(r.cfg.Server.MediaRoot, filepath.FromSlash(image))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("Failed to remove unused upload", zap.String("path", path), zap.Error(err))
	}
}

func checkImage(fh *multipart.FileHeader) error {
	invalid := &blog.ValidationError{Fields: map[string]string{
		"image": "Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
	}}

	f, err := fh.Open()
	if err != nil {
		return invalid
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return invalid
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return invalid
	}
	return nil
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}
