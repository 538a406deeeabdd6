package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/core/view"
)

// headerIdempotentReplay is set on a create response answered from an earlier
// request with the same Idempotency-Key.
const headerIdempotentReplay = "Idempotent-Replayed"

// PostHandler serves posts, likes and comments.
type PostHandler struct {
	service        ports.PostService
	maxUploadBytes int64
}

func NewPostHandler(service ports.PostService, maxUploadBytes int64) *PostHandler {
	return &PostHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// List handles GET /api/posts.
//
// @Summary      List all posts, newest first
// @Tags         posts
// @Produce      json
// @Param        userId  query     int  false  "Viewer ID used for userLiked"
// @Success      200     {array}   view.Post
// @Failure      400     {object}  errorResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	viewer, err := viewerID(c)
	if err != nil {
		return err
	}

	posts, err := h.service.ListPosts(c.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// ListByUser handles GET /api/users/:id/posts.
//
// @Summary      List a user's posts, newest first
// @Tags         posts
// @Produce      json
// @Param        id      path      int  true   "Author ID"
// @Param        userId  query     int  false  "Viewer ID used for userLiked"
// @Success      200     {array}   view.Post
// @Failure      400     {object}  errorResponse
// @Router       /api/users/{id}/posts [get]
func (h *PostHandler) ListByUser(c echo.Context) error {
	authorID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	viewer, err := viewerID(c)
	if err != nil {
		return err
	}

	posts, err := h.service.ListUserPosts(c.Request().Context(), authorID, viewer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Create handles POST /api/posts and answers with the refreshed feed as seen
// by the author.
//
// @Summary      Publish a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Param        Idempotency-Key  header    string  false  "Makes retries return the first post instead of creating another"
// @Param        userId           formData  int     true   "Author ID"
// @Param        content          formData  string  false  "Text content"
// @Param        image            formData  file    false  "Image"
// @Success      200              {array}   view.Post
// @Failure      400              {object}  errorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := requiredUserID(c)
	if err != nil {
		return err
	}
	img, err := readUpload(c, "image", h.maxUploadBytes)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	result, err := h.service.CreatePost(ctx, ports.CreatePostInput{
		UserID:         userID,
		Content:        c.FormValue("content"),
		Image:          img,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}
	if result.AlreadyExisted {
		c.Response().Header().Set(headerIdempotentReplay, "true")
	}

	posts, err := h.service.ListPosts(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Delete handles DELETE /api/posts/:postId?userId=.
//
// @Summary      Delete an own post
// @Tags         posts
// @Produce      json
// @Param        postId  path      int  true  "Post ID"
// @Param        userId  query     int  true  "Requester ID"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/posts/{postId} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	userID, err := requiredUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), postID, userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}

// ToggleLike handles POST /api/posts/:postId/like.
//
// @Summary      Like or unlike a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        postId  path      int          true  "Post ID"
// @Param        body    body      likeRequest  true  "Liker"
// @Success      200     {object}  likesResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/posts/{postId}/like [post]
func (h *PostHandler) ToggleLike(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	var req likeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.ToggleLike(c.Request().Context(), postID, req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likesResponse{Likes: result.Likes})
}

// AddComment handles POST /api/posts/:postId/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        postId  path      int             true  "Post ID"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      200     {object}  view.Comment
// @Failure      400     {object}  errorResponse
// @Router       /api/posts/{postId}/comments [post]
func (h *PostHandler) AddComment(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.Request().Context(), postID, req.UserID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.NewComment(comment))
}

// ListComments handles GET /api/posts/:postId/comments.
//
// @Summary      List a post's comments, newest first
// @Tags         comments
// @Produce      json
// @Param        postId  path      int  true  "Post ID"
// @Success      200     {array}   view.Comment
// @Failure      400     {object}  errorResponse
// @Router       /api/posts/{postId}/comments [get]
func (h *PostHandler) ListComments(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}

	comments, err := h.service.ListComments(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.NewComments(comments))
}
