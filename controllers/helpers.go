package controllers

import "github.com/gin-gonic/gin"

// serverError builds the generic failure body. The underlying message is
// only exposed in development mode; production clients get the public
// message and the detail stays in the server log.
func serverError(dev bool, public string, err error) gin.H {
	body := gin.H{"error": public}
	if dev && err != nil {
		body["details"] = err.Error()
	}
	return body
}
