package handler

import (
	"strconv"

	"openbook_server/internal/config"

	"github.com/gin-gonic/gin"
)

// pageOf reads ?page=N (1-based, default 1) and converts it to an
// offset/limit window using the configured page size.
func pageOf(c *gin.Context) (offset, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size := config.GetConfig().MainConfig.PageSize
	return (page - 1) * size, size
}
