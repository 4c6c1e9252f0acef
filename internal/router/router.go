// Package router declares the HTTP route table.
package router

import (
	"openbook_server/internal/handler"
	"openbook_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Register mounts all routes on the engine. Everything except the
// static file mount sits behind JWT auth; account signup and login
// live in the external auth service.
func Register(r *gin.Engine) {
	api := r.Group("/", middleware.JWTAuth())

	friend := api.Group("/friend")
	{
		friend.GET("", handler.Friends)
		friend.POST("/add/:userId", handler.AddFriend)
		friend.DELETE("/remove/:userId", handler.RemoveFriend)
		friend.GET("/status/:userId", handler.FriendshipStatus)
	}

	notification := api.Group("/notification")
	{
		notification.GET("", handler.Notifications)
		notification.GET("/unread", handler.UnreadNotificationCount)
		notification.PATCH("/read/:id", handler.MarkNotificationRead)
	}

	message := api.Group("/message")
	{
		message.POST("", handler.SendMessage)
		message.GET("/chats", handler.Chats)
		message.GET("/unread", handler.UnreadMessageCount)
		message.GET("/conversation/:userId", handler.Conversation)
	}

	post := api.Group("/post")
	{
		post.POST("", handler.CreatePost)
		post.GET("/feed", handler.Feed)
		post.GET("/user/:userId", handler.PostsOf)
		post.GET("/:id", handler.GetPost)
		post.DELETE("/:id", handler.DeletePost)
		post.PUT("/:id/like", handler.ToggleLike)
		post.POST("/:id/comment", handler.CreateComment)
		post.GET("/:id/comments", handler.Comments)
		post.DELETE("/comment/:id", handler.DeleteComment)
	}

	api.GET("/ws", handler.WsConnect)
}
