package api

import (
	"net/http"
	"strconv"

	"github.com/fsdevblog/garant/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

// getAccountIDFromContext берет из контекста gin ID текущего аккаунта. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getAccountIDFromContext(c *gin.Context) int64 {
	v, exist := c.Get(middlewares.CurrentAccountIDKey)
	if !exist {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// accountIDParam разбирает числовой параметр пути. При ошибке отвечает 400 и возвращает false.
func accountIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
