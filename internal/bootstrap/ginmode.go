package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode quiets gin's per-route debug output outside development.
// APP_ENV values other than "production" keep the default debug mode.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
