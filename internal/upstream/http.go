package upstream

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError maps a client error to an HTTP status: unparseable success
// payloads become 500, everything else (transport failures and upstream
// non-2xx responses) becomes 502 with a descriptive message.
func RespondError(c *gin.Context, err error) {
	if errors.Is(err, ErrUnparseable) {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": ErrUnparseable.Error()})
		return
	}

	var ue *Error
	if errors.As(err, &ue) {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": ue.Error()})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
}
