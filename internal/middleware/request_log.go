package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLog 请求日志中间件
// 记录方法、路径、状态码和耗时，排查编辑操作链路用
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		log.Printf("[HTTP] %s %s -> %d (%v)",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency,
		)
	}
}
