package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
	})
}

// RespondAppError writes err using its kind's status code. Internal errors are
// logged with their cause and answered with a generic message.
func RespondAppError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	code := appErr.HTTPStatus()

	message := appErr.Message
	if appErr.Kind == apperrors.KindInternal {
		ErrorLogger.WithFields(map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Errorf("%s: %v", appErr.Message, appErr.Err)
		message = "internal server error"
	}

	c.JSON(code, JSONResponse{
		Status:  false,
		Message: message,
		Error:   string(appErr.Kind),
	})
}
