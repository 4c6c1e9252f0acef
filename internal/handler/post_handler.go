package handler

import (
	"net/http"
	"strconv"

	"openbook_server/internal/dto/request"
	"openbook_server/internal/infrastructure/middleware"
	"openbook_server/internal/service"
	"openbook_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

func postId(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "invalid post id"))
		return 0, false
	}
	return id, true
}

// CreatePost handles POST /post: multipart form with content and any
// number of files under the "files" field.
func CreatePost(c *gin.Context) {
	var req request.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	fileIds, err := storeFormFiles(c, "files")
	if err != nil {
		HandleError(c, err)
		return
	}
	out, err := service.Svc.Post.Create(middleware.UserId(c), req.Content, fileIds)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, out)
}

// DeletePost handles DELETE /post/:id.
func DeletePost(c *gin.Context) {
	id, ok := postId(c, "id")
	if !ok {
		return
	}
	if err := service.Svc.Post.Delete(middleware.UserId(c), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, nil)
}

// GetPost handles GET /post/:id.
func GetPost(c *gin.Context) {
	id, ok := postId(c, "id")
	if !ok {
		return
	}
	out, err := service.Svc.Post.Get(middleware.UserId(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}

// Feed handles GET /post/feed: the caller's and their friends' posts.
func Feed(c *gin.Context) {
	offset, limit := pageOf(c)
	out, err := service.Svc.Post.Feed(middleware.UserId(c), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}

// PostsOf handles GET /post/user/:userId.
func PostsOf(c *gin.Context) {
	offset, limit := pageOf(c)
	out, err := service.Svc.Post.PostsOf(middleware.UserId(c), c.Param("userId"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}

// ToggleLike handles PUT /post/:id/like and reports the new state.
func ToggleLike(c *gin.Context) {
	id, ok := postId(c, "id")
	if !ok {
		return
	}
	liked, err := service.Svc.Post.ToggleLike(middleware.UserId(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, gin.H{"liked": liked})
}

// CreateComment handles POST /post/:id/comment.
func CreateComment(c *gin.Context) {
	id, ok := postId(c, "id")
	if !ok {
		return
	}
	var req request.CreateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	fileId, err := storeFormFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	out, err := service.Svc.Post.Comment(middleware.UserId(c), id, req.Content, fileId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusCreated, out)
}

// DeleteComment handles DELETE /post/comment/:id.
func DeleteComment(c *gin.Context) {
	id, ok := postId(c, "id")
	if !ok {
		return
	}
	if err := service.Svc.Post.DeleteComment(middleware.UserId(c), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, nil)
}

// Comments handles GET /post/:id/comments, oldest first.
func Comments(c *gin.Context) {
	id, ok := postId(c, "id")
	if !ok {
		return
	}
	offset, limit := pageOf(c)
	out, err := service.Svc.Post.Comments(id, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, http.StatusOK, out)
}
